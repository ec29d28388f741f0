package rules

import (
	"context"
	"slices"
	"strings"

	"github.com/olusolaa/infra-policy-gate/internal/core/domain"
)

func generalRules(s Settings) []domain.RuleDefinition {
	return []domain.RuleDefinition{
		define(IDRequireTags, domain.DomainGeneral, domain.SeverityBlocking, "CM-8",
			"Taggable resources must carry every required tag with a non-empty value",
			requireTags(s)),
		define(IDAllowedRegions, domain.DomainGeneral, domain.SeverityBlocking, "SC-7(AC-20)",
			"Resources and provider configurations must target an allowed region",
			allowedRegions(s)),
		define(IDNamingConvention, domain.DomainGeneral, domain.SeverityAdvisory, "CM-8",
			"The Name tag should start with the organisational prefix",
			namingConvention(s)),
	}
}

func requireTags(s Settings) check {
	return func(_ context.Context, cs *domain.ChangeSet, c *Collector) {
		for _, rc := range cs.InScopeOfType(s.TaggableTypes...) {
			if rc.Attributes().IsUnknown(domain.KeyTags) {
				continue
			}
			tags, ok := rc.Attributes().StringMap(domain.KeyTags)
			if !ok {
				for _, key := range s.RequiredTags {
					c.Add(rc.Address, "%s has no tags; required tag '%s' is missing", rc.Address, key)
				}
				continue
			}
			for _, key := range s.RequiredTags {
				if strings.TrimSpace(tags[key]) == "" {
					c.Add(rc.Address, "%s is missing required tag '%s'", rc.Address, key)
				}
			}
		}
	}
}

// allowedRegions skips resources with an empty region but reports providers
// whose constant region is empty.
func allowedRegions(s Settings) check {
	return func(_ context.Context, cs *domain.ChangeSet, c *Collector) {
		for _, rc := range cs.InScope() {
			region, ok := rc.Attributes().String(domain.KeyRegion)
			if !ok || region == "" {
				continue
			}
			if !slices.Contains(s.AllowedRegions, region) {
				c.Add(rc.Address, "%s is deployed to region '%s', which is not one of [%s]",
					rc.Address, region, strings.Join(s.AllowedRegions, ", "))
			}
		}
		for _, key := range cs.ProviderKeys() {
			pc := cs.ProviderConfigs[key]
			region, ok := pc.Attributes.String(domain.KeyRegion)
			if !ok {
				continue
			}
			if !slices.Contains(s.AllowedRegions, region) {
				c.Add(pc.Target(), "provider configuration '%s' uses region '%s', which is not one of [%s]",
					pc.Key, region, strings.Join(s.AllowedRegions, ", "))
			}
		}
	}
}

func namingConvention(s Settings) check {
	return func(_ context.Context, cs *domain.ChangeSet, c *Collector) {
		if s.NamePrefix == "" {
			return
		}
		for _, rc := range cs.InScopeOfType(s.TaggableTypes...) {
			name, ok := rc.Attributes().String(domain.KeyTags, domain.TagName)
			if !ok || name == "" {
				continue
			}
			if !strings.HasPrefix(name, s.NamePrefix) {
				c.Add(rc.Address, "%s has Name tag '%s', which does not start with '%s'", rc.Address, name, s.NamePrefix)
			}
		}
	}
}
