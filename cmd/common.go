/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/valpere/lingoval/internal/baseline"
	"github.com/valpere/lingoval/internal/config"
	"github.com/valpere/lingoval/internal/lang"
	"github.com/valpere/lingoval/internal/provider"
)

// buildProviders constructs the candidate providers named in providerNames.
// Unknown names are skipped with a warning; providers without credentials
// are skipped too so one missing key does not block the rest.
func buildProviders(ctx context.Context, cfg *config.Config, providerNames []string) ([]provider.Provider, error) {
	var list []provider.Provider

	for _, name := range providerNames {
		var p provider.Provider
		switch name {
		case "openai":
			p = provider.NewOpenAI(cfg.OpenAI)
		case "deepseek":
			p = provider.NewDeepSeek(cfg.DeepSeek)
		case "anthropic":
			p = provider.NewAnthropic(cfg.Anthropic)
		default:
			fmt.Fprintf(os.Stderr, "Unknown provider: %s, skipping\n", name)
			continue
		}

		if err := p.IsAvailable(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Provider %s unavailable: %v, skipping\n", name, err)
			continue
		}
		list = append(list, p)
	}

	if len(list) == 0 {
		return nil, fmt.Errorf("no usable providers configured")
	}
	return list, nil
}

// buildBaseline constructs the named baseline translation service.
func buildBaseline(ctx context.Context, cfg *config.Config, name string) (baseline.Service, func(), error) {
	switch name {
	case "google":
		g, err := baseline.NewGoogle(ctx, cfg.GoogleCredentials)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create google baseline: %w", err)
		}
		return g, func() { g.Close() }, nil
	case "mymemory":
		return baseline.NewMyMemory(cfg.MyMemoryEmail), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown baseline service: %s", name)
	}
}

// parseLanguages resolves language names or codes, failing on the first
// unknown one.
func parseLanguages(names []string) ([]lang.Language, error) {
	languages := make([]lang.Language, 0, len(names))
	for _, name := range names {
		l, err := lang.Parse(name)
		if err != nil {
			return nil, err
		}
		languages = append(languages, l)
	}
	return languages, nil
}
