package dataprocessing

import (
	"fmt"
	"strings"

	"leadtimecli/internal/config"
	"leadtimecli/pkg/contracts/domain"
)

type channelRule struct {
	keyword string
	group   domain.ChannelGroup
}

// ChannelClassifier maps free-text channel descriptions to channel groups.
// Rules are checked in order; the first keyword contained in the description
// (ignoring case) wins and anything unmatched is OTHER.
type ChannelClassifier struct {
	rules []channelRule
}

// NewChannelClassifier builds a classifier from configured rules.
func NewChannelClassifier(rules []config.ChannelRule) (*ChannelClassifier, error) {
	c := &ChannelClassifier{rules: make([]channelRule, 0, len(rules))}
	for _, r := range rules {
		group := domain.ChannelGroup(strings.ToUpper(strings.TrimSpace(r.Group)))
		if !group.Valid() {
			return nil, fmt.Errorf("channel rule %q: unknown group %q", r.Keyword, r.Group)
		}
		keyword := strings.ToUpper(strings.TrimSpace(r.Keyword))
		if keyword == "" {
			return nil, fmt.Errorf("channel rule for group %s has an empty keyword", group)
		}
		c.rules = append(c.rules, channelRule{keyword: keyword, group: group})
	}
	return c, nil
}

// DefaultChannelClassifier uses the default WEBSHOP and HOME CENTER rules.
func DefaultChannelClassifier() *ChannelClassifier {
	c, err := NewChannelClassifier(config.DefaultPipelineConfig().ChannelRules)
	if err != nil {
		panic(err)
	}
	return c
}

// Classify never fails; blank input is OTHER.
func (c *ChannelClassifier) Classify(raw string) domain.ChannelGroup {
	text := strings.ToUpper(raw)
	if strings.TrimSpace(text) == "" {
		return domain.ChannelOther
	}
	for _, r := range c.rules {
		if strings.Contains(text, r.keyword) {
			return r.group
		}
	}
	return domain.ChannelOther
}
