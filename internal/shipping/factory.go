package shipping

import (
	"errors"
	"strings"
)

var ErrUnknownProvider = errors.New("unknown shipping provider")

// 業者名からProvider実装を引くファクトリ。名前の大小文字は区別しない。
// AvailableProvidersは登録順を保つ（一覧表示を安定させるため）。
type Factory struct {
	names     []string
	providers map[string]Provider
}

func NewFactory(providers ...Provider) *Factory {
	f := &Factory{
		providers: make(map[string]Provider, len(providers)),
	}
	for _, p := range providers {
		key := strings.ToLower(p.Name())
		if _, ok := f.providers[key]; ok {
			continue
		}
		f.providers[key] = p
		f.names = append(f.names, p.Name())
	}
	return f
}

func (f *Factory) GetProvider(name string) (Provider, error) {
	p, ok := f.providers[strings.ToLower(name)]
	if !ok {
		return nil, ErrUnknownProvider
	}
	return p, nil
}

func (f *Factory) AvailableProviders() []string {
	out := make([]string, len(f.names))
	copy(out, f.names)
	return out
}
