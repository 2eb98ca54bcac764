/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	gojsonschema "github.com/xeipuuv/gojsonschema"
)

//go:embed theme.schema.json
var themeSchema []byte

// DecodeTheme parses a JSON theme document supplied by the host application.
// The document is checked against the embedded schema first so that structural
// problems are reported by field; missing optional fields take DefaultTheme values.
func DecodeTheme(data []byte) (ThemeSpec, error) {
	res, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(themeSchema), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return ThemeSpec{}, fmt.Errorf("theme document: %w", err)
	}
	if !res.Valid() {
		first := res.Errors()[0]
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return ThemeSpec{}, &InvalidThemeError{Field: first.Field(), Reason: strings.Join(msgs, "; ")}
	}
	t := DefaultTheme()
	if err := json.Unmarshal(data, &t); err != nil {
		return ThemeSpec{}, fmt.Errorf("theme document: %w", err)
	}
	if err := t.Validate(); err != nil {
		return ThemeSpec{}, err
	}
	return t, nil
}

// EncodeTheme writes t as an indented JSON document accepted by DecodeTheme.
func EncodeTheme(t ThemeSpec) ([]byte, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return json.MarshalIndent(t, "", "  ")
}
