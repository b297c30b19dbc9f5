// Package compiler provides the tag compilers and the preprocessors they use.
package compiler

import (
	"context"
	"strings"

	"go.trai.ch/riot/internal/core/domain"
	"go.trai.ch/riot/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Compiler = (*Riot)(nil)

// Riot is the built-in tag compiler. Each root tag definition becomes one
// riot.tag2 call; text outside root tags is kept as is.
type Riot struct {
	registry *Registry
}

// NewRiot creates a Riot compiler resolving preprocessor names through registry.
func NewRiot(registry *Registry) *Riot {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Riot{registry: registry}
}

// Compile compiles the tag definitions in source.
func (c *Riot) Compile(ctx context.Context, source string, opts domain.CompileOptions) (string, error) {
	template, err := c.registry.Lookup(opts.Template)
	if err != nil {
		return "", err
	}
	script, err := c.registry.Lookup(opts.Type)
	if err != nil {
		return "", err
	}

	source, err = template.Process(ctx, source)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrPreprocessorFailed.Error()), "preprocessor", opts.Template)
	}

	segs, err := splitRoots(commentRe.ReplaceAllString(source, ""))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, seg := range segs {
		if seg.tag == nil {
			b.WriteString(seg.text)
			continue
		}
		out, err := c.compileTag(ctx, seg.tag, opts, script)
		if err != nil {
			return "", zerr.With(err, "tag", seg.tag.name)
		}
		b.WriteString(out)
	}

	return b.String(), nil
}

func (c *Riot) compileTag(
	ctx context.Context,
	tag *rootTag,
	opts domain.CompileOptions,
	script ports.Preprocessor,
) (string, error) {
	body, styles := extractBlocks(styleRe, tag.body)
	body, scripts := extractBlocks(scriptRe, body)

	html, js := body, strings.Join(scripts, "\n")
	if len(scripts) == 0 {
		html, js = splitUntagged(body)
	}

	if strings.TrimSpace(js) != "" {
		var err error
		js, err = script.Process(ctx, js)
		if err != nil {
			return "", zerr.With(zerr.Wrap(err, domain.ErrPreprocessorFailed.Error()), "preprocessor", opts.Type)
		}
	}

	expr := func(e string) (string, error) {
		e = strings.TrimSpace(e)
		if !opts.Expr || e == "" {
			return e, nil
		}
		out, err := script.Process(ctx, e)
		if err != nil {
			return "", zerr.With(zerr.Wrap(err, domain.ErrPreprocessorFailed.Error()), "expression", e)
		}
		return strings.TrimSuffix(strings.TrimSpace(out), ";"), nil
	}

	html, err := rewriteExpressions(collapse(html), expr)
	if err != nil {
		return "", err
	}
	if opts.Compact {
		html = betweenTagsRe.ReplaceAllString(html, "><")
	}

	attrs, err := rewriteExpressions(collapse(tag.attrs), expr)
	if err != nil {
		return "", err
	}

	css := collapse(strings.Join(styles, " "))

	return "riot.tag2(" +
		quote(tag.name) + ", " +
		quote(html) + ", " +
		quote(css) + ", " +
		quote(attrs) + ", " +
		"function(opts) {\n" + formatScript(js) + "});", nil
}
