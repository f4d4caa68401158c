package python

import (
	"github.com/termfx/balancedwrap/providers/base"
	"github.com/termfx/balancedwrap/providers/catalog"
)

func init() {
	catalog.Register(catalog.LanguageInfo{
		ID:         "python",
		Extensions: (&Config{}).Extensions(),
	})
}

// New creates a Python provider. Each call owns a fresh parser.
func New() *base.Provider {
	config := &Config{}
	return base.New(config)
}
