package config

import (
	"path"
	"slices"
	"strings"
)

// FilterConfig selects the entities exposed to the smart home platform.
// Globs use path.Match syntax ("sensor.*_temperature").
type FilterConfig struct {
	IncludeDomains     []string `yaml:"include_domains"`
	IncludeEntities    []string `yaml:"include_entities"`
	IncludeEntityGlobs []string `yaml:"include_entity_globs"`
	ExcludeDomains     []string `yaml:"exclude_domains"`
	ExcludeEntities    []string `yaml:"exclude_entities"`
	ExcludeEntityGlobs []string `yaml:"exclude_entity_globs"`
}

// Empty reports whether no rule is configured.
func (f FilterConfig) Empty() bool {
	return !f.hasIncludes() && !f.hasExcludes()
}

func (f FilterConfig) hasIncludes() bool {
	return len(f.IncludeDomains) > 0 || len(f.IncludeEntities) > 0 || len(f.IncludeEntityGlobs) > 0
}

func (f FilterConfig) hasExcludes() bool {
	return len(f.ExcludeDomains) > 0 || len(f.ExcludeEntities) > 0 || len(f.ExcludeEntityGlobs) > 0
}

// Matches reports whether entityID passes the filter. An empty filter
// matches nothing. Entity rules take precedence over domain rules and
// exclusions over inclusions at the same level.
func (f FilterConfig) Matches(entityID string) bool {
	if f.Empty() {
		return false
	}

	if slices.Contains(f.ExcludeEntities, entityID) || matchAny(f.ExcludeEntityGlobs, entityID) {
		return false
	}
	if slices.Contains(f.IncludeEntities, entityID) || matchAny(f.IncludeEntityGlobs, entityID) {
		return true
	}

	domain, _, _ := strings.Cut(entityID, ".")
	if slices.Contains(f.ExcludeDomains, domain) {
		return false
	}
	if slices.Contains(f.IncludeDomains, domain) {
		return true
	}

	return !f.hasIncludes()
}

func matchAny(globs []string, entityID string) bool {
	for _, g := range globs {
		if ok, err := path.Match(g, entityID); err == nil && ok {
			return true
		}
	}
	return false
}
