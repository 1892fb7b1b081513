package swigext

import (
	"fmt"
	"sort"
)

// FrontEndRegistry maps each supported language to its front end.
//
// Not thread-safe for registration. Register all front ends before
// constructing builders.
type FrontEndRegistry struct {
	frontEnds map[Language]FrontEnd
}

// NewFrontEndRegistry creates an empty registry.
func NewFrontEndRegistry() *FrontEndRegistry {
	return &FrontEndRegistry{frontEnds: map[Language]FrontEnd{}}
}

// Register sets the front end for lang, replacing any previous one.
func (r *FrontEndRegistry) Register(lang Language, frontEnd FrontEnd) {
	r.frontEnds[lang] = frontEnd
}

// HeaderGeneratorFor returns a header generator for lang.
func (r *FrontEndRegistry) HeaderGeneratorFor(lang Language) (*HeaderGenerator, error) {
	frontEnd, ok := r.frontEnds[lang]
	if !ok {
		return nil, &ConfigurationError{Key: "frontend", Message: fmt.Sprintf("no front end registered for %s", lang)}
	}
	return NewHeaderGenerator(lang, frontEnd)
}

// Languages returns the registered languages in a stable order.
func (r *FrontEndRegistry) Languages() []Language {
	langs := make([]Language, 0, len(r.frontEnds))
	for lang := range r.frontEnds {
		langs = append(langs, lang)
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })
	return langs
}
