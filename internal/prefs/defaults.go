package prefs

// Default server locations, restored by the "reset to defaults" action.
const (
	DefaultGenomeServerURL = "https://genomes.genoview.org/genomes.json"
	DefaultDataServerURL   = "https://data.genoview.org/registry.txt"
	DefaultBlatURL         = "https://genome.ucsc.edu/cgi-bin/hgBlat"
)

// defaults holds the value a key reads as when the store has no explicit entry.
var defaults = map[string]string{
	KeySessionRelativePaths:  "false",
	KeyShowDefaultAttributes: "true",
	KeySingleTrackPane:       "false",
	KeyShowAttributes:        "true",
	KeySearchZoom:            "true",
	KeyFlankingRegion:        "-1",
	KeyMaxSequenceResolution: "2",
	KeyShowRegionBars:        "false",
	KeyVisibilityWindow:      "-1",
	KeyEnableGoogleMenu:      "false",
	KeySaveGoogleCredentials: "true",
	KeyScaleFonts:            "false",
	KeyFontFamily:            "Arial",
	KeyFontSize:              "10",
	KeyFontAttribute:         "0",
	KeyBackgroundColor:       "250,250,250",

	KeyChartTrackHeight:   "40",
	KeyTrackNameAttribute: "NAME",
	KeyTrackHeight:        "15",
	KeyExpandTracks:       "false",
	KeyNormalizeCoverage:  "false",

	KeyOverlayTracks:        "true",
	KeyOverlayAttribute:     "DATA FILE",
	KeyColorMutations:       "true",
	KeyShowOrphanedMutation: "true",
	KeyHomRefColor:          "235,235,235",
	KeyHetVarColor:          "0,0,255",
	KeyHomVarColor:          "0,245,255",
	KeyNoCallColor:          "225,225,225",
	KeyAFRefColor:           "0,0,220",
	KeyAFVarColor:           "255,0,0",
	KeyColorByAlleleFreq:    "true",

	KeyChartTopBorder:    "false",
	KeyChartBottomBorder: "false",
	KeyChartColorBorders: "true",
	KeyChartTrackName:    "true",
	KeyChartAutoscale:    "true",
	KeyChartDataRange:    "true",
	KeyChartYAxis:        "false",
	KeyChartAllHeatmap:   "false",

	KeySamShowAlignments:       "true",
	KeySamShowCoverage:         "true",
	KeySamShowJunctions:        "false",
	KeySamMaxVisibleRange:      "30",
	KeySamDownsample:           "true",
	KeySamSamplingWindow:       "50",
	KeySamSamplingCount:        "100",
	KeySamShadeBases:           ShadeQuality,
	KeySamBaseQualityMin:       "5",
	KeySamBaseQualityMax:       "20",
	KeySamQualityThreshold:     "0",
	KeySamFlagLargeIndels:      "true",
	KeySamLargeIndelsThreshold: "1",
	KeySamFlagClipping:         "false",
	KeySamClippingThreshold:    "0",
	KeySamHideSmallIndel:       "false",
	KeySamSmallIndelThreshold:  "0",
	KeySamShowDuplicates:       "false",
	KeySamFlagUnmappedPair:     "false",
	KeySamFilterFailedReads:    "true",
	KeySamShowSoftClipped:      "false",
	KeySamFilterSecondary:      "false",
	KeySamFilterSupplementary:  "false",
	KeySamQuickConsensus:       "false",
	KeySamShowCenterLine:       "true",
	KeySamHiddenTags:           "SA,MD,XA,RG,",
	KeySamAlleleThreshold:      "0.2",
	KeySamAlleleUseQuality:     "true",
	KeySamJunctionFlanking:     "false",
	KeySamJunctionMinFlanking:  "0",
	KeySamJunctionMinCoverage:  "1",
	KeySamComputeInsertSizes:   "true",
	KeySamMinInsertSize:        "50",
	KeySamMaxInsertSize:        "1000",
	KeySamMinInsertPercentile:  "0.5",
	KeySamMaxInsertPercentile:  "99.5",

	KeyProbeMapToGenes: "false",
	KeyProbeUseFile:    "false",

	KeyUseProxy:          "false",
	KeyProxyAuthenticate: "false",
	KeyProxyType:         ProxyHTTP,

	KeyDBEnabled: "false",
	KeyDBPort:    "-1",

	KeyPortEnabled:         "true",
	KeyPortNumber:          "60151",
	KeyAutoUpdateGenomes:   "true",
	KeyDataServerURL:       DefaultDataServerURL,
	KeyGenomeServerURL:     DefaultGenomeServerURL,
	KeyBlatURL:             DefaultBlatURL,
	KeyBypassAutoDiscovery: "false",
	KeyTooltipInitialDelay: "50",
	KeyTooltipReshowDelay:  "0",
	KeyTooltipDismissDelay: "60000",
	KeyAntialiasing:        "true",

	KeyCramCacheSequences: "true",
	KeyCramCacheSize:      "1000",
}

// Default returns the built-in value for key, or "" if the key has none.
func Default(key string) string {
	return defaults[key]
}
