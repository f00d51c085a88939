package tests_test

import (
	"fmt"
	"strings"

	"github.com/containerd/nerdctl/mod/tigron/test"
	"github.com/containerd/nerdctl/mod/tigron/tig"
)

// scoreTable is a small visqol_scores.csv with two encoders.
const scoreTable = `enc_path,ref_path,sample_rate,channels,duration,format,subtype,encoder,VISQOL_Scores
/d/a/lc3.wav,/d/a/reference.wav,48000,1,1.5,WAV,PCM_16,lc3,4.5
/d/b/lc3.wav,/d/b/reference.wav,48000,1,1.5,WAV,PCM_16,lc3,3.5
/d/a/opus.wav,/d/a/reference.wav,48000,1,1.5,WAV,PCM_16,opus,2.25
`

// expectContains returns a comparator verifying the output contains every substring.
func expectContains(substrs ...string) test.Comparator {
	return func(stdout string, testing tig.T) {
		testing.Helper()

		for _, substr := range substrs {
			if !strings.Contains(stdout, substr) {
				testing.Log(fmt.Sprintf("expected substring %q not found in output:\n%s", substr, stdout))
				testing.Fail()
			}
		}
	}
}

// expectOrder returns a comparator verifying the substrings appear in the given order.
func expectOrder(substrs ...string) test.Comparator {
	return func(stdout string, testing tig.T) {
		testing.Helper()

		rest := stdout

		for _, substr := range substrs {
			idx := strings.Index(rest, substr)
			if idx < 0 {
				testing.Log(fmt.Sprintf("expected %q after the previous matches in output:\n%s", substr, stdout))
				testing.Fail()

				return
			}

			rest = rest[idx+len(substr):]
		}
	}
}
