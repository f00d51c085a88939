package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/farcloser/codecbench/internal/config"
	"github.com/farcloser/codecbench/internal/metadata"
)

func TestLowestFirst(t *testing.T) {
	t.Parallel()

	scored := []metadata.Scored{
		{Pair: metadata.Pair{Encoder: "lc3", RefPath: "a"}, Score: 4},
		{Pair: metadata.Pair{Encoder: "opus", RefPath: "b"}, Score: 1},
		{Pair: metadata.Pair{Encoder: "lc3", RefPath: "c"}, Score: 2},
	}

	picked := lowestFirst(scored, "lc3")
	if len(picked) != 2 || picked[0].RefPath != "c" || picked[1].RefPath != "a" {
		t.Errorf("lowestFirst() = %+v", picked)
	}
}

func TestRenderTable(t *testing.T) {
	t.Parallel()

	out := renderTable([]string{"Codec", "Found"}, [][]string{{"lc3", "yes"}, {"opus"}}, []columnAlignment{alignLeft, alignRight})

	for _, want := range []string{"Codec", "lc3", "opus", "yes"} {
		if !strings.Contains(out, want) {
			t.Errorf("table lacks %q:\n%s", want, out)
		}
	}

	if renderTable(nil, nil, nil) != "" {
		t.Error("empty header should render nothing")
	}
}

func TestSelectCodecs(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Codecs = map[string]config.Codec{
		"opus":   {Type: "opus", Path: t.TempDir()},
		"legacy": {Type: "opus", Path: t.TempDir(), Disabled: true},
	}

	if _, err := selectCodecs(&cfg, []string{"missing"}); !errors.Is(err, errUnknownCodec) {
		t.Errorf("unknown codec: error = %v", err)
	}

	// opusenc is absent from the empty directory.
	if _, err := selectCodecs(&cfg, nil); err == nil {
		t.Error("missing tools accepted")
	}

	if _, err := selectCodecs(&cfg, []string{"legacy"}); !errors.Is(err, errDisabledCodec) {
		t.Errorf("disabled codec: error = %v", err)
	}
}
