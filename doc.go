// Package codecbench builds audio quality evaluation datasets.
//
// A build takes a corpus of reference recordings, converts each into a reference WAV, runs every reference through
// one or more lossy codecs, and records every (decoded, reference) pair in a CSV table ready for perceptual scoring.
// Low-pass anchors and ViSQOL scores are produced from that table afterwards.
package codecbench

/*
Usage:

codecs := []codec.Codec{lc3, opus}

result, err := codecbench.Build(ctx, codecbench.BuildOptions{
    OriginalDir:  "/data/original",
    ProcessedDir: "/data/processed",
    CodecSet:     "lc3-opus",
    Subset:       "fullband",
    SampleRates:  []int{48000},
    Bitrate:      32000,
    Downmix:      true,
    Codecs:       codecs,
})
if errors.Is(err, codecbench.ErrPartialFailure) {
    for _, failure := range result.Failures {
        fmt.Println(failure.Output, failure.Error)
    }
}

// Anchors beside every reference of the table
written, err := codecbench.Anchors(ctx, result.PairsFile, codecbench.AnchorOptions{})

// Scores, written to visqol_scores.csv beside the table
scores, err := codecbench.Score(ctx, result.PairsFile, codecbench.ScoreOptions{
    Visqol: visqol.Options{Binary: "visqol"},
})
for _, stats := range codecbench.Digest(scores.Scored) {
    fmt.Println(stats.Encoder, stats.Mean)
}

*/
