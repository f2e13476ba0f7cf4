package scraper

import (
	"errors"
	"fmt"

	"github.com/pevans/newsdigest/extract"
)

// Rule kinds, one per extraction strategy.
const (
	KindCSS        = "css"
	KindHrefPrefix = "href_prefix"
	KindTag        = "tag"
)

// ErrInvalidRule is returned for rule configs that cannot be turned into an
// extraction rule.
var ErrInvalidRule = errors.New("invalid extraction rule")

// RuleConfig defines how candidate links are selected from a source's
// document. Only the fields of the chosen Kind are used.
type RuleConfig struct {
	Kind     string `json:"kind" yaml:"kind"`                               // "css", "href_prefix" or "tag"
	Selector string `json:"selector,omitempty" yaml:"selector,omitempty"` // css
	Prefix   string `json:"prefix,omitempty" yaml:"prefix,omitempty"`     // href_prefix
	Base     string `json:"base,omitempty" yaml:"base,omitempty"`         // css, href_prefix
	Tag      string `json:"tag,omitempty" yaml:"tag,omitempty"`           // tag
}

// NewCSSRule creates a CSS selector rule config.
func NewCSSRule(selector, base string) RuleConfig {
	return RuleConfig{
		Kind:     KindCSS,
		Selector: selector,
		Base:     base,
	}
}

// NewHrefPrefixRule creates an href prefix rule config.
func NewHrefPrefixRule(prefix, base string) RuleConfig {
	return RuleConfig{
		Kind:   KindHrefPrefix,
		Prefix: prefix,
		Base:   base,
	}
}

// NewTagRule creates a tag match rule config. An empty tag defaults to
// "item", the RSS item element.
func NewTagRule(tag string) RuleConfig {
	if tag == "" {
		tag = "item"
	}
	return RuleConfig{
		Kind: KindTag,
		Tag:  tag,
	}
}

// Validate checks that the fields required by the rule's kind are present.
func (c RuleConfig) Validate() error {
	switch c.Kind {
	case KindCSS:
		if c.Selector == "" {
			return fmt.Errorf("%w: css rule requires a selector", ErrInvalidRule)
		}
	case KindHrefPrefix:
		if c.Prefix == "" {
			return fmt.Errorf("%w: href_prefix rule requires a prefix", ErrInvalidRule)
		}
	case KindTag:
		if c.Tag == "" {
			return fmt.Errorf("%w: tag rule requires a tag", ErrInvalidRule)
		}
	case "":
		return fmt.Errorf("%w: kind is required", ErrInvalidRule)
	default:
		return fmt.Errorf("%w: unknown kind %q (must be css, href_prefix or tag)", ErrInvalidRule, c.Kind)
	}
	return nil
}

// Rule builds the extraction rule described by the config.
func (c RuleConfig) Rule() (extract.Rule, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	switch c.Kind {
	case KindCSS:
		return extract.CSSSelector{Selector: c.Selector, Base: c.Base}, nil
	case KindHrefPrefix:
		return extract.HrefPrefix{Prefix: c.Prefix, Base: c.Base}, nil
	default:
		return extract.TagMatch{Tag: c.Tag}, nil
	}
}

// String renders the rule for listings, e.g. `css ".titleline > a"`.
func (c RuleConfig) String() string {
	switch c.Kind {
	case KindCSS:
		return fmt.Sprintf("css %q", c.Selector)
	case KindHrefPrefix:
		return fmt.Sprintf("href_prefix %q", c.Prefix)
	case KindTag:
		return fmt.Sprintf("tag %q", c.Tag)
	default:
		return c.Kind
	}
}
