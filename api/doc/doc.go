// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package doc serves the Open API description of the launchpool API.
package doc

import (
	"embed"

	"gopkg.in/yaml.v3"
)

//go:embed launchpool.yaml
var FS embed.FS

var description struct {
	Info struct {
		Version string `yaml:"version"`
	} `yaml:"info"`
	Paths map[string]map[string]struct {
		Parameters []struct {
			Name   string `yaml:"name"`
			Schema struct {
				Enum []string `yaml:"enum"`
			} `yaml:"schema"`
		} `yaml:"parameters"`
	} `yaml:"paths"`
}

func init() {
	content, err := FS.ReadFile("launchpool.yaml")
	if err != nil {
		panic(err)
	}
	if err := yaml.Unmarshal(content, &description); err != nil {
		panic(err)
	}
}

// Version returns the documented API version.
func Version() string {
	return description.Info.Version
}

// Operations returns the documented operation names.
func Operations() []string {
	for _, param := range description.Paths["/operations/{name}"]["post"].Parameters {
		if param.Name == "name" {
			return param.Schema.Enum
		}
	}
	return nil
}
