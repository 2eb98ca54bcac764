/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bollsJohn3 = `[
 {"pk":1,"translation":"KJV","book":43,"chapter":3,"verse":16,"text":"For God so loved the world, that he gave his only begotten Son, that whosoever believeth in him should not perish, but have everlasting life."},
 {"pk":2,"translation":"KJV","book":43,"chapter":3,"verse":17,"text":"For God sent not his Son into the world to condemn the world; but that the world through him might be saved."}
]`

func run(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(nil)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersionAndPresets(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "config.yaml")
	out, err := run(t, cfg, "version")
	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(out))

	out, err = run(t, cfg, "presets")
	require.NoError(t, err)
	assert.Contains(t, out, "1080p")
	assert.Contains(t, out, "3840x2160")
}

func TestImportAndRender(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.yaml")
	dsn := filepath.Join(dir, "verses.sqlite")
	src := filepath.Join(dir, "kjv.json")
	require.NoError(t, os.WriteFile(src, []byte(bollsJohn3), 0o644))

	out, err := run(t, cfg, "import", "--dsn", dsn, src)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 2 verses")

	outDir := filepath.Join(dir, "out")
	out, err = run(t, cfg, "render", "John 3:16-17", "--dsn", dsn, "--display", "720p",
		"--format", "png,zip", "--out", outDir, "--size", "48", "--shadow")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(outDir, "png", "john-3-16-17", "slide-01.png"))
	assert.Contains(t, out, filepath.Join(outDir, "zip", "john-3-16-17.zip"))
	_, err = os.Stat(filepath.Join(outDir, "zip", "john-3-16-17.zip"))
	require.NoError(t, err)
}

func TestRenderRejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.yaml")
	dsn := filepath.Join(dir, "verses.sqlite")

	_, err := run(t, cfg, "render", "Hezekiah 1:1", "--dsn", dsn)
	require.Error(t, err)

	_, err = run(t, cfg, "render", "John 3:16", "--dsn", dsn, "--align", "justify")
	require.Error(t, err)

	_, err = run(t, cfg, "render", "John 3:16", "--dsn", dsn, "--display", "8k")
	require.Error(t, err)
}
