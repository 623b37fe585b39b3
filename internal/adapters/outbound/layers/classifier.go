// Package layers resolves the architectural layer of project files from
// configured glob overrides and folder conventions.
package layers

import (
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/openkraft/layerlint/internal/domain"
	"github.com/openkraft/layerlint/internal/domain/imports"
)

const cacheSize = 4096

type override struct {
	pattern string
	layer   domain.Layer
}

// Classifier implements domain.LayerClassifier. It is safe for concurrent
// use.
type Classifier struct {
	overrides []override
	cache     *lru.Cache[string, domain.Layer]
}

// New builds a classifier from the config's layer overrides. Patterns are
// tried longest first, so "src/core/shared/**" beats "src/core/**". A
// pattern mapped to an unknown layer name classifies its files as
// Unclassified.
func New(layers map[string]string) (*Classifier, error) {
	cache, err := lru.New[string, domain.Layer](cacheSize)
	if err != nil {
		return nil, err
	}
	c := &Classifier{cache: cache}
	for pattern, name := range layers {
		c.overrides = append(c.overrides, override{
			pattern: pattern,
			layer:   domain.ParseLayer(name),
		})
	}
	sort.Slice(c.overrides, func(i, j int) bool {
		a, b := c.overrides[i].pattern, c.overrides[j].pattern
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return a < b
	})
	return c, nil
}

// LayerOf classifies a slash-separated path relative to the project root.
func (c *Classifier) LayerOf(path string) domain.Layer {
	path = strings.TrimPrefix(strings.ReplaceAll(path, `\`, "/"), "./")
	if l, ok := c.cache.Get(path); ok {
		return l
	}
	l := c.resolve(path)
	c.cache.Add(path, l)
	return l
}

func (c *Classifier) resolve(path string) domain.Layer {
	for _, o := range c.overrides {
		if ok, _ := doublestar.Match(o.pattern, path); ok {
			return o.layer
		}
	}
	l, _ := imports.LayerOf(path)
	return l
}
