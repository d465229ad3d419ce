/*
Copyright 2025 the Unikorn Authors.
Copyright 2026 Nscale.

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

package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"sigs.k8s.io/yaml"
)

// Output is a rendering format.
type Output string

const (
	OutputYAML Output = "yaml"
	OutputJSON Output = "json"
)

// Printer renders command results.
type Printer struct {
	format Output
	out    io.Writer
}

// NewPrinter returns a printer for the named format.
func NewPrinter(format string, out io.Writer) (*Printer, error) {
	switch Output(format) {
	case OutputYAML, OutputJSON:
	default:
		return nil, fmt.Errorf("%w: output %q, must be one of yaml or json", ErrInvalidFlag, format)
	}

	return &Printer{
		format: Output(format),
		out:    out,
	}, nil
}

// Print renders v, structs are rendered via their JSON field names.
func (p *Printer) Print(v any) error {
	var (
		data []byte
		err  error
	)

	switch p.format {
	case OutputJSON:
		data, err = json.MarshalIndent(v, "", "  ")
		data = append(data, '\n')
	default:
		data, err = yaml.Marshal(v)
	}

	if err != nil {
		return fmt.Errorf("rendering %s: %w", p.format, err)
	}

	if _, err := p.out.Write(data); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	return nil
}
