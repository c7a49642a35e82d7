// Copyright 2021 Optakt Labs OÜ
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// File is the layout of the optional YAML configuration file. Every field
// mirrors a command line flag of the same name.
type File struct {
	Store   string `yaml:"store"`
	Data    string `yaml:"data"`
	DSN     string `yaml:"dsn"`
	Table   string `yaml:"table"`
	Level   string `yaml:"level"`
	API     string `yaml:"api"`
	Metrics string `yaml:"metrics"`
}

// readFile decodes the configuration file at the given path.
func readFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("could not read config file: %w", err)
	}

	var file File
	err = yaml.Unmarshal(data, &file)
	if err != nil {
		return File{}, fmt.Errorf("could not decode config file: %w", err)
	}

	return file, nil
}

// apply copies the values of the file into the flags that were not set
// explicitly on the command line.
func (f File) apply(flags *pflag.FlagSet) error {
	values := map[string]string{
		"store":   f.Store,
		"data":    f.Data,
		"dsn":     f.DSN,
		"table":   f.Table,
		"level":   f.Level,
		"api":     f.API,
		"metrics": f.Metrics,
	}

	for name, value := range values {
		if value == "" || flags.Changed(name) {
			continue
		}
		err := flags.Set(name, value)
		if err != nil {
			return fmt.Errorf("could not apply config value (flag: %s): %w", name, err)
		}
	}

	return nil
}
