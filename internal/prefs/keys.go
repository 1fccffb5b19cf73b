package prefs

// Preference keys. The namespace is fixed; values are stored as strings and
// interpreted by the reader.
const (
	// General
	KeySessionRelativePaths  = "session.relative_paths"
	KeyShowDefaultAttributes = "track.show_default_attributes"
	KeySingleTrackPane       = "track.single_pane"
	KeyShowAttributes        = "attributes.show"
	KeySearchZoom            = "search.zoom"
	KeyFlankingRegion        = "flanking.region"
	KeyMaxSequenceResolution = "sequence.max_resolution"
	KeyShowRegionBars        = "region.show_bars"
	KeyVisibilityWindow      = "feature.visibility_window"
	KeyEnableGoogleMenu      = "google.enable_menu"
	KeySaveGoogleCredentials = "google.save_credentials"
	KeyScaleFonts            = "font.scale"
	KeyFontFamily            = "font.family"
	KeyFontSize              = "font.size"
	KeyFontAttribute         = "font.attribute"
	KeyBackgroundColor       = "background.color"

	// Tracks
	KeyChartTrackHeight   = "chart.track_height"
	KeyTrackNameAttribute = "track.name_attribute"
	KeyTrackHeight        = "track.default_height"
	KeyExpandTracks       = "track.expand"
	KeyNormalizeCoverage  = "coverage.normalize"

	// Variants
	KeyOverlayTracks        = "overlay.mutation_tracks"
	KeyOverlayAttribute     = "overlay.attribute"
	KeyColorMutations       = "mutation.color_code"
	KeyShowOrphanedMutation = "mutation.show_orphaned"
	KeyHomRefColor          = "variant.homref_color"
	KeyHetVarColor          = "variant.hetvar_color"
	KeyHomVarColor          = "variant.homvar_color"
	KeyNoCallColor          = "variant.nocall_color"
	KeyAFRefColor           = "variant.afref_color"
	KeyAFVarColor           = "variant.afvar_color"
	KeyColorByAlleleFreq    = "variant.color_by_allele_freq"

	// Charts
	KeyChartTopBorder    = "chart.draw_top_border"
	KeyChartBottomBorder = "chart.draw_bottom_border"
	KeyChartColorBorders = "chart.color_borders"
	KeyChartTrackName    = "chart.draw_track_name"
	KeyChartAutoscale    = "chart.autoscale"
	KeyChartDataRange    = "chart.show_data_range"
	KeyChartYAxis        = "chart.draw_y_axis"
	KeyChartAllHeatmap   = "chart.show_all_heatmap"

	// Alignments
	KeySamShowAlignments       = "sam.show_alignment_track"
	KeySamShowCoverage         = "sam.show_coverage_track"
	KeySamShowJunctions        = "sam.show_junction_track"
	KeySamMaxVisibleRange      = "sam.max_visible_range"
	KeySamDownsample           = "sam.downsample_reads"
	KeySamSamplingWindow       = "sam.sampling_window"
	KeySamSamplingCount        = "sam.sampling_count"
	KeySamShadeBases           = "sam.shade_bases"
	KeySamBaseQualityMin       = "sam.base_quality_min"
	KeySamBaseQualityMax       = "sam.base_quality_max"
	KeySamQualityThreshold     = "sam.quality_threshold"
	KeySamFlagLargeIndels      = "sam.flag_large_indels"
	KeySamLargeIndelsThreshold = "sam.large_indels_threshold"
	KeySamFlagClipping         = "sam.flag_clipping"
	KeySamClippingThreshold    = "sam.clipping_threshold"
	KeySamHideSmallIndel       = "sam.hide_small_indel"
	KeySamSmallIndelThreshold  = "sam.small_indel_threshold"
	KeySamShowDuplicates       = "sam.show_duplicates"
	KeySamFlagUnmappedPair     = "sam.flag_unmapped_pair"
	KeySamFilterFailedReads    = "sam.filter_failed_reads"
	KeySamShowSoftClipped      = "sam.show_soft_clipped"
	KeySamFilterSecondary      = "sam.filter_secondary_alignments"
	KeySamFilterSupplementary  = "sam.filter_supplementary_alignments"
	KeySamQuickConsensus       = "sam.quick_consensus_mode"
	KeySamShowCenterLine       = "sam.show_center_line"
	KeySamHiddenTags           = "sam.hidden_tags"
	KeySamAlleleThreshold      = "sam.allele_threshold"
	KeySamAlleleUseQuality     = "sam.allele_use_quality"
	KeySamJunctionFlanking     = "sam.junction_show_flanking"
	KeySamJunctionMinFlanking  = "sam.junction_min_flanking_width"
	KeySamJunctionMinCoverage  = "sam.junction_min_coverage"
	KeySamComputeInsertSizes   = "sam.compute_isizes"
	KeySamMinInsertSize        = "sam.min_insert_size_threshold"
	KeySamMaxInsertSize        = "sam.max_insert_size_threshold"
	KeySamMinInsertPercentile  = "sam.min_insert_size_percentile"
	KeySamMaxInsertPercentile  = "sam.max_insert_size_percentile"

	// Probes
	KeyProbeMapToGenes = "probe.map_to_genes"
	KeyProbeUseFile    = "probe.use_mapping_file"
	KeyProbeFile       = "probe.mapping_file"

	// Proxy
	KeyUseProxy          = "proxy.use"
	KeyProxyAuthenticate = "proxy.authenticate"
	KeyProxyHost         = "proxy.host"
	KeyProxyPort         = "proxy.port"
	KeyProxyWhitelist    = "proxy.whitelist"
	KeyProxyType         = "proxy.type"
	KeyProxyUser         = "proxy.user"
	KeyProxyPassword     = "proxy.password"

	// Database
	KeyDBEnabled = "db.enabled"
	KeyDBHost    = "db.host"
	KeyDBName    = "db.name"
	KeyDBPort    = "db.port"

	// Advanced
	KeyPortEnabled         = "port.enabled"
	KeyPortNumber          = "port.number"
	KeyAutoUpdateGenomes   = "genome.auto_update"
	KeyDataServerURL       = "server.data_url"
	KeyGenomeServerURL     = "server.genome_url"
	KeyBlatURL             = "blat.url"
	KeyBypassAutoDiscovery = "file.bypass_auto_discovery"
	KeyTooltipInitialDelay = "tooltip.initial_delay"
	KeyTooltipReshowDelay  = "tooltip.reshow_delay"
	KeyTooltipDismissDelay = "tooltip.dismiss_delay"
	KeyAntialiasing        = "render.antialiasing"

	// Cram
	KeyCramCacheSequences = "cram.cache_sequences"
	KeyCramCacheSize      = "cram.cache_size"
	KeyCramCacheDirectory = "cram.cache_directory"
)

// Shade-bases option values.
const (
	ShadeQuality = "QUALITY"
	ShadeNone    = "NONE"
)

// Proxy type option values.
const (
	ProxyHTTP   = "HTTP"
	ProxySOCKS  = "SOCKS"
	ProxyDirect = "DIRECT"
)

// Key groups that drive commit side effects.
var (
	proxyKeys = []string{
		KeyUseProxy, KeyProxyAuthenticate, KeyProxyHost, KeyProxyPort,
		KeyProxyWhitelist, KeyProxyType, KeyProxyUser, KeyProxyPassword,
	}
	overlayKeys   = []string{KeyOverlayTracks, KeyOverlayAttribute}
	tooltipKeys   = []string{KeyTooltipInitialDelay, KeyTooltipReshowDelay, KeyTooltipDismissDelay}
	fontKeys      = []string{KeyFontFamily, KeyFontSize, KeyFontAttribute}
	listenerKeys  = []string{KeyPortEnabled, KeyPortNumber}
	variantColors = []string{
		KeyHomRefColor, KeyHetVarColor, KeyHomVarColor,
		KeyNoCallColor, KeyAFRefColor, KeyAFVarColor,
	}
)

// ProxyKeys returns the keys that make up the proxy configuration.
func ProxyKeys() []string {
	return append([]string(nil), proxyKeys...)
}
