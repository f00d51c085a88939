package config

const (
	defaultDataDir       = "./data"
	defaultBitrate       = 32000
	defaultCodecSet      = "default"
	defaultSubset        = "all"
	defaultTestRunLimit  = 10
	defaultWorkers       = 10
	defaultBitDepth      = 16
	defaultVisqolBinary  = "visqol"
	defaultVisqolTimeout = 300
	defaultCodecTimeout  = 300
	defaultLogFormat     = "text"
	defaultLogLevel      = "info"
	defaultRipple        = 0.1
	defaultAttenuation   = 25.0
)

// Default returns a Config populated with repository defaults. No codec is configured.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
		},
		Dataset: Dataset{
			CodecSet:     defaultCodecSet,
			Bitrate:      defaultBitrate,
			Extensions:   []string{"wav", "flac"},
			TestRunLimit: defaultTestRunLimit,
			Workers:      defaultWorkers,
			Subset: Subset{
				Name: defaultSubset,
			},
		},
		Reference: Reference{
			BitDepth: defaultBitDepth,
		},
		Codecs: map[string]Codec{},
		Anchors: Anchors{
			Bands: []Band{
				{Passband: 3500, Stopband: 4000, Ripple: defaultRipple, Attenuation: defaultAttenuation},
				{Passband: 7000, Stopband: 7500, Ripple: defaultRipple, Attenuation: defaultAttenuation},
			},
		},
		Visqol: Visqol{
			Binary:         defaultVisqolBinary,
			TimeoutSeconds: defaultVisqolTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
