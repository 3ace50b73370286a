// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"strings"
	"testing"
	"time"
)

type sampleParams struct {
	JSONOutput
	Type    string        `flag:"type,t" desc:"record type" default:"ANY"`
	NoDHT   bool          `flag:"no-dht" desc:"local only"`
	Count   int           `flag:"count" default:"3"`
	Port    uint32        `flag:"port" default:"0x10"`
	Timeout time.Duration `flag:"timeout" default:"2s"`
	Names   []string      `flag:"name"`
	Ignored string
}

func TestBindFlagsDefaults(t *testing.T) {
	var params sampleParams
	flagSet := FlagsFromParams("sample", &params)
	if err := flagSet.Parse(nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if params.Type != "ANY" || params.NoDHT || params.Count != 3 || params.Port != 16 || params.Timeout != 2*time.Second {
		t.Errorf("defaults = %+v", params)
	}
	if flagSet.Lookup("ignored") != nil {
		t.Error("untagged field was bound")
	}
}

func TestBindFlagsParse(t *testing.T) {
	var params sampleParams
	flagSet := FlagsFromParams("sample", &params)
	args := []string{"-t", "TXT", "--no-dht", "--json", "--port", "80", "--name", "a,b", "--name", "c", "rest"}
	if err := flagSet.Parse(args); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if params.Type != "TXT" || !params.NoDHT || !params.OutputJSON || params.Port != 80 {
		t.Errorf("params = %+v", params)
	}
	if strings.Join(params.Names, " ") != "a b c" {
		t.Errorf("names = %v", params.Names)
	}
	if got := flagSet.Args(); len(got) != 1 || got[0] != "rest" {
		t.Errorf("positional args = %v", got)
	}
}

func TestBindFlagsRejectsBadParams(t *testing.T) {
	if err := BindFlags(sampleParams{}, nil); err == nil {
		t.Error("BindFlags accepted a non-pointer")
	}
	var unsupported struct {
		Ratio float32 `flag:"ratio"`
	}
	if err := BindFlags(&unsupported, FlagsFromParams("empty", &struct{}{})); err == nil {
		t.Error("BindFlags accepted an unsupported field type")
	}
	var badDefault struct {
		Count int `flag:"count" default:"many"`
	}
	if err := BindFlags(&badDefault, FlagsFromParams("empty", &struct{}{})); err == nil {
		t.Error("BindFlags accepted an unparseable default")
	}
}
