package prefs

import (
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
)

// Kind selects the widget a field is rendered with.
type Kind int

const (
	KindBool Kind = iota
	KindInt
	KindFloat
	KindText
	KindMultiline
	KindPassword
	KindChoice
	KindPath
	KindColor
	KindFont
)

// Rule canonicalizes raw widget text into the stored value. A non-nil error
// carries the message shown to the user.
type Rule func(raw string) (string, error)

// Requirement makes a field interactive only while the checkbox bound to Key
// is in the Checked state.
type Requirement struct {
	Key     string
	Checked bool
}

// Option is one entry of a choice field.
type Option struct {
	Label string
	Value string
}

// Field binds one preference key to a widget.
type Field struct {
	Key   string
	Tab   string
	Label string
	Kind  Kind

	// Rule validates committed text. Nil stores the trimmed text.
	Rule Rule
	// Format renders a stored value for display. Nil shows it unchanged.
	Format func(stored string) string

	// CheckedValue and UncheckedValue are the stored values of a checkbox.
	// Empty means "true" and "false".
	CheckedValue   string
	UncheckedValue string

	Requires []Requirement
	Options  []Option

	// Deferred fields are held by the editor until confirm and staged only
	// if they differ from the effective value.
	Deferred bool
}

func (f Field) checkedValue() string {
	if f.CheckedValue == "" {
		return "true"
	}
	return f.CheckedValue
}

func (f Field) uncheckedValue() string {
	if f.UncheckedValue == "" {
		return "false"
	}
	return f.UncheckedValue
}

func (f Field) format(stored string) string {
	if f.Format == nil {
		return stored
	}
	return f.Format(stored)
}

func (f Field) optionValue(label string) (string, bool) {
	for _, o := range f.Options {
		if strings.EqualFold(o.Label, label) || o.Value == label {
			return o.Value, true
		}
	}
	return "", false
}

func intRule(msg string) Rule {
	return func(raw string) (string, error) {
		s := strings.TrimSpace(raw)
		if _, err := strconv.Atoi(s); err != nil {
			return "", errors.New(msg)
		}
		return s, nil
	}
}

func positiveIntRule(msg string) Rule {
	return func(raw string) (string, error) {
		s := strings.TrimSpace(raw)
		v, err := strconv.Atoi(s)
		if err != nil || v <= 0 {
			return "", errors.New(msg)
		}
		return s, nil
	}
}

func nonNegativeIntRule(msg string) Rule {
	return func(raw string) (string, error) {
		s := strings.TrimSpace(raw)
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			return "", errors.New(msg)
		}
		return s, nil
	}
}

func floatRule(msg string) Rule {
	return func(raw string) (string, error) {
		s := strings.TrimSpace(raw)
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			return "", errors.New(msg)
		}
		return s, nil
	}
}

// rangeRule accepts numbers in [min, max]. Thousands separators are ignored
// when parsing; the stored value keeps the trimmed text.
func rangeRule(min, max float64, msg string) Rule {
	return func(raw string) (string, error) {
		s := strings.TrimSpace(raw)
		v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
		if err != nil || v < min || v > max {
			return "", errors.New(msg)
		}
		return s, nil
	}
}

// optionalIntRule accepts an integer or blank.
func optionalIntRule(msg string) Rule {
	return func(raw string) (string, error) {
		s := strings.TrimSpace(raw)
		if s == "" {
			return "", nil
		}
		if _, err := strconv.Atoi(s); err != nil {
			return "", errors.New(msg)
		}
		return s, nil
	}
}

// TagList canonicalizes a comma or space separated tag list. The result
// always ends in ",", so clearing every tag stores "," rather than "".
func TagList(raw string) (string, error) {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	seen := make(map[string]bool, len(fields))
	var b strings.Builder
	for _, tag := range fields {
		if seen[tag] {
			continue
		}
		seen[tag] = true
		b.WriteString(tag)
		b.WriteByte(',')
	}
	if b.Len() == 0 {
		return ",", nil
	}
	return b.String(), nil
}

func formatTagList(stored string) string {
	return strings.TrimSuffix(stored, ",")
}

// Whitelist joins host patterns given one per line or comma separated.
func Whitelist(raw string) (string, error) {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})
	hosts := make([]string, 0, len(fields))
	for _, h := range fields {
		if h = strings.TrimSpace(h); h != "" {
			hosts = append(hosts, h)
		}
	}
	return strings.Join(hosts, ","), nil
}

func formatWhitelist(stored string) string {
	return strings.ReplaceAll(stored, ",", "\n")
}

func encodePassword(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}
	return base64.StdEncoding.EncodeToString([]byte(raw)), nil
}

// DecodePassword returns the clear text of a stored proxy password. Values
// that are not base64 are returned unchanged.
func DecodePassword(stored string) string {
	b, err := base64.StdEncoding.DecodeString(stored)
	if err != nil {
		return stored
	}
	return string(b)
}

// dbPort never rejects: anything that is not an integer means "unset".
func dbPort(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if _, err := strconv.Atoi(s); err != nil {
		return "-1", nil
	}
	return s, nil
}

func formatDBPort(stored string) string {
	if v, err := strconv.Atoi(stored); err != nil || v < 0 {
		return ""
	}
	return stored
}

// Tab titles in display order.
const (
	TabGeneral    = "General"
	TabTracks     = "Tracks"
	TabVariants   = "Variants"
	TabCharts     = "Charts"
	TabAlignments = "Alignments"
	TabProbes     = "Probes"
	TabProxy      = "Proxy"
	TabDatabase   = "Database"
	TabAdvanced   = "Advanced"
	TabCram       = "Cram"
)

var allTabs = []string{
	TabGeneral, TabTracks, TabVariants, TabCharts, TabAlignments,
	TabProbes, TabProxy, TabDatabase, TabAdvanced, TabCram,
}

var (
	downsampled   = []Requirement{{Key: KeySamDownsample, Checked: true}}
	proxyOn       = []Requirement{{Key: KeyUseProxy, Checked: true}}
	proxyAuth     = []Requirement{{Key: KeyUseProxy, Checked: true}, {Key: KeyProxyAuthenticate, Checked: true}}
	junctionsOn   = []Requirement{{Key: KeySamShowJunctions, Checked: true}}
	isizeComputed = []Requirement{{Key: KeySamComputeInsertSizes, Checked: true}}
	isizeFixed    = []Requirement{{Key: KeySamComputeInsertSizes, Checked: false}}
	shadeOn       = []Requirement{{Key: KeySamShadeBases, Checked: true}}
	overlayOn     = []Requirement{{Key: KeyOverlayTracks, Checked: true}}
)

var fields = []Field{
	// General
	{Key: KeySessionRelativePaths, Tab: TabGeneral, Label: "Use relative paths in session files", Kind: KindBool},
	{Key: KeyShowDefaultAttributes, Tab: TabGeneral, Label: "Show default attributes", Kind: KindBool},
	{Key: KeySingleTrackPane, Tab: TabGeneral, Label: "Display all tracks in a single panel", Kind: KindBool},
	{Key: KeyShowAttributes, Tab: TabGeneral, Label: "Show attribute display", Kind: KindBool},
	{Key: KeySearchZoom, Tab: TabGeneral, Label: "Zoom to features", Kind: KindBool},
	{Key: KeyFlankingRegion, Tab: TabGeneral, Label: "Feature flanking region (bp or %)", Kind: KindInt,
		Rule: intRule("Flanking region must be an integer number.")},
	{Key: KeyMaxSequenceResolution, Tab: TabGeneral, Label: "Sequence resolution threshold (bp/pixel)", Kind: KindFloat,
		Rule: rangeRule(1, 10000, "Visibility range must be a number between 1 and 10000.")},
	{Key: KeyShowRegionBars, Tab: TabGeneral, Label: "Show region bars", Kind: KindBool},
	{Key: KeyVisibilityWindow, Tab: TabGeneral, Label: "Feature visibility window (kb)", Kind: KindFloat,
		Rule: floatRule("Visibility window must be a number")},
	{Key: KeyEnableGoogleMenu, Tab: TabGeneral, Label: "Enable Google menu", Kind: KindBool},
	{Key: KeySaveGoogleCredentials, Tab: TabGeneral, Label: "Save Google credentials", Kind: KindBool},
	{Key: KeyScaleFonts, Tab: TabGeneral, Label: "Scale fonts", Kind: KindBool},
	{Key: KeyFontFamily, Tab: TabGeneral, Label: "Default font", Kind: KindFont},
	{Key: KeyFontSize, Tab: TabGeneral, Label: "Default font size", Kind: KindFont},
	{Key: KeyFontAttribute, Tab: TabGeneral, Label: "Default font style", Kind: KindFont},
	{Key: KeyBackgroundColor, Tab: TabGeneral, Label: "Background color", Kind: KindColor, Deferred: true},

	// Tracks
	{Key: KeyChartTrackHeight, Tab: TabTracks, Label: "Default track height, charts (pixels)", Kind: KindInt,
		Rule: intRule("Track height must be an integer number.")},
	{Key: KeyTrackHeight, Tab: TabTracks, Label: "Default track height, other (pixels)", Kind: KindInt,
		Rule: intRule("Track height must be an integer number.")},
	{Key: KeyTrackNameAttribute, Tab: TabTracks, Label: "Track name attribute", Kind: KindText},
	{Key: KeyExpandTracks, Tab: TabTracks, Label: "Expand feature tracks", Kind: KindBool},
	{Key: KeyNormalizeCoverage, Tab: TabTracks, Label: "Normalize coverage data", Kind: KindBool},

	// Variants
	{Key: KeyOverlayTracks, Tab: TabVariants, Label: "Overlay mutation tracks", Kind: KindBool},
	{Key: KeyOverlayAttribute, Tab: TabVariants, Label: "Overlay attribute", Kind: KindText, Requires: overlayOn},
	{Key: KeyShowOrphanedMutation, Tab: TabVariants, Label: "Show orphaned mutations", Kind: KindBool, Requires: overlayOn},
	{Key: KeyColorMutations, Tab: TabVariants, Label: "Color code mutations", Kind: KindBool},
	{Key: KeyHomRefColor, Tab: TabVariants, Label: "Homozygous reference", Kind: KindColor, Deferred: true},
	{Key: KeyHetVarColor, Tab: TabVariants, Label: "Heterozygous variant", Kind: KindColor, Deferred: true},
	{Key: KeyHomVarColor, Tab: TabVariants, Label: "Homozygous variant", Kind: KindColor, Deferred: true},
	{Key: KeyNoCallColor, Tab: TabVariants, Label: "No call", Kind: KindColor, Deferred: true},
	{Key: KeyAFRefColor, Tab: TabVariants, Label: "Allele frequency, reference", Kind: KindColor, Deferred: true},
	{Key: KeyAFVarColor, Tab: TabVariants, Label: "Allele frequency, variant", Kind: KindColor, Deferred: true},
	{Key: KeyColorByAlleleFreq, Tab: TabVariants, Label: "Color by", Kind: KindChoice, Deferred: true,
		Options: []Option{{Label: "Allele frequency", Value: "true"}, {Label: "Allele fraction", Value: "false"}}},

	// Charts
	{Key: KeyChartTopBorder, Tab: TabCharts, Label: "Draw top border", Kind: KindBool},
	{Key: KeyChartBottomBorder, Tab: TabCharts, Label: "Draw bottom border", Kind: KindBool},
	{Key: KeyChartColorBorders, Tab: TabCharts, Label: "Color borders", Kind: KindBool},
	{Key: KeyChartTrackName, Tab: TabCharts, Label: "Draw track names", Kind: KindBool},
	{Key: KeyChartAutoscale, Tab: TabCharts, Label: "Continuous autoscale", Kind: KindBool},
	{Key: KeyChartDataRange, Tab: TabCharts, Label: "Show data range", Kind: KindBool},
	{Key: KeyChartYAxis, Tab: TabCharts, Label: "Draw Y axis", Kind: KindBool},
	{Key: KeyChartAllHeatmap, Tab: TabCharts, Label: "Show all features in heatmaps", Kind: KindBool},

	// Alignments
	{Key: KeySamShowAlignments, Tab: TabAlignments, Label: "Show alignment track", Kind: KindBool},
	{Key: KeySamShowCoverage, Tab: TabAlignments, Label: "Show coverage track", Kind: KindBool},
	{Key: KeySamShowJunctions, Tab: TabAlignments, Label: "Show splice junction track", Kind: KindBool},
	{Key: KeySamJunctionFlanking, Tab: TabAlignments, Label: "Show flanking regions", Kind: KindBool, Requires: junctionsOn},
	{Key: KeySamJunctionMinFlanking, Tab: TabAlignments, Label: "Min flanking width", Kind: KindInt, Requires: junctionsOn,
		Rule: nonNegativeIntRule("Flanking width must be a positive integer.")},
	{Key: KeySamJunctionMinCoverage, Tab: TabAlignments, Label: "Min junction coverage", Kind: KindInt, Requires: junctionsOn,
		Rule: nonNegativeIntRule("Minimum junction coverage must be a positive integer.")},
	{Key: KeySamMaxVisibleRange, Tab: TabAlignments, Label: "Visibility range threshold (kb)", Kind: KindFloat,
		Rule: floatRule("Visibility range must be a number.")},
	{Key: KeySamDownsample, Tab: TabAlignments, Label: "Downsample reads", Kind: KindBool},
	{Key: KeySamSamplingWindow, Tab: TabAlignments, Label: "Sampling window size (bases)", Kind: KindInt, Requires: downsampled,
		Rule: positiveIntRule("Down-sampling window must be a positive integer.")},
	{Key: KeySamSamplingCount, Tab: TabAlignments, Label: "Reads per window", Kind: KindInt, Requires: downsampled,
		Rule: positiveIntRule("Down-sampling read count must be a positive integer.")},
	{Key: KeySamQualityThreshold, Tab: TabAlignments, Label: "Mapping quality threshold", Kind: KindInt,
		Rule: intRule("Mapping quality threshold must be an integer.")},
	{Key: KeySamShadeBases, Tab: TabAlignments, Label: "Shade mismatched bases by quality", Kind: KindBool,
		CheckedValue: ShadeQuality, UncheckedValue: ShadeNone},
	{Key: KeySamBaseQualityMin, Tab: TabAlignments, Label: "Base quality min", Kind: KindInt, Requires: shadeOn,
		Rule: intRule("Base quality must be an integer.")},
	{Key: KeySamBaseQualityMax, Tab: TabAlignments, Label: "Base quality max", Kind: KindInt, Requires: shadeOn,
		Rule: intRule("Base quality must be an integer.")},
	{Key: KeySamFlagLargeIndels, Tab: TabAlignments, Label: "Label indels larger than threshold", Kind: KindBool},
	{Key: KeySamLargeIndelsThreshold, Tab: TabAlignments, Label: "Large indel threshold (bases)", Kind: KindInt,
		Requires: []Requirement{{Key: KeySamFlagLargeIndels, Checked: true}},
		Rule:     positiveIntRule("Insertion threshold must be a positive integer.")},
	{Key: KeySamFlagClipping, Tab: TabAlignments, Label: "Flag clipping larger than threshold", Kind: KindBool},
	{Key: KeySamClippingThreshold, Tab: TabAlignments, Label: "Clipping threshold (bases)", Kind: KindInt,
		Requires: []Requirement{{Key: KeySamFlagClipping, Checked: true}},
		Rule:     nonNegativeIntRule("Clipping threshold must be a non-negative integer.")},
	{Key: KeySamHideSmallIndel, Tab: TabAlignments, Label: "Hide indels smaller than threshold", Kind: KindBool},
	{Key: KeySamSmallIndelThreshold, Tab: TabAlignments, Label: "Small indel threshold (bases)", Kind: KindInt,
		Requires: []Requirement{{Key: KeySamHideSmallIndel, Checked: true}},
		Rule:     positiveIntRule("Threshold must be a positive integer.")},
	{Key: KeySamShowDuplicates, Tab: TabAlignments, Label: "Filter duplicate reads", Kind: KindBool,
		CheckedValue: "false", UncheckedValue: "true"},
	{Key: KeySamFlagUnmappedPair, Tab: TabAlignments, Label: "Flag unmapped mates", Kind: KindBool},
	{Key: KeySamFilterFailedReads, Tab: TabAlignments, Label: "Filter vendor failed reads", Kind: KindBool},
	{Key: KeySamShowSoftClipped, Tab: TabAlignments, Label: "Show soft-clipped bases", Kind: KindBool},
	{Key: KeySamFilterSecondary, Tab: TabAlignments, Label: "Filter secondary alignments", Kind: KindBool},
	{Key: KeySamFilterSupplementary, Tab: TabAlignments, Label: "Filter supplementary alignments", Kind: KindBool},
	{Key: KeySamQuickConsensus, Tab: TabAlignments, Label: "Quick consensus mode", Kind: KindBool},
	{Key: KeySamShowCenterLine, Tab: TabAlignments, Label: "Show center line", Kind: KindBool},
	{Key: KeySamHiddenTags, Tab: TabAlignments, Label: "Hide tags", Kind: KindText,
		Rule: TagList, Format: formatTagList},
	{Key: KeySamAlleleThreshold, Tab: TabAlignments, Label: "Coverage allele-fraction threshold", Kind: KindFloat,
		Rule: floatRule("Allele frequency threshold must be a number.")},
	{Key: KeySamAlleleUseQuality, Tab: TabAlignments, Label: "Quality weight allele fraction", Kind: KindBool},
	{Key: KeySamComputeInsertSizes, Tab: TabAlignments, Label: "Compute insert size thresholds", Kind: KindBool},
	{Key: KeySamMinInsertPercentile, Tab: TabAlignments, Label: "Min insert size percentile", Kind: KindFloat, Requires: isizeComputed,
		Rule: floatRule("Minimum insert size percentile must be a number.")},
	{Key: KeySamMaxInsertPercentile, Tab: TabAlignments, Label: "Max insert size percentile", Kind: KindFloat, Requires: isizeComputed,
		Rule: floatRule("Maximum insert size percentile must be a number.")},
	{Key: KeySamMinInsertSize, Tab: TabAlignments, Label: "Min insert size (bases)", Kind: KindInt, Requires: isizeFixed,
		Rule: intRule("Insert size threshold must be an integer.")},
	{Key: KeySamMaxInsertSize, Tab: TabAlignments, Label: "Max insert size (bases)", Kind: KindInt, Requires: isizeFixed,
		Rule: intRule("Insert size threshold must be an integer.")},

	// Probes
	{Key: KeyProbeMapToGenes, Tab: TabProbes, Label: "Map probes to genes", Kind: KindBool},
	{Key: KeyProbeUseFile, Tab: TabProbes, Label: "Use probe mapping file", Kind: KindBool},
	{Key: KeyProbeFile, Tab: TabProbes, Label: "Probe mapping file", Kind: KindPath,
		Requires: []Requirement{{Key: KeyProbeUseFile, Checked: true}}},

	// Proxy
	{Key: KeyUseProxy, Tab: TabProxy, Label: "Use proxy", Kind: KindBool},
	{Key: KeyProxyHost, Tab: TabProxy, Label: "Proxy host", Kind: KindText, Requires: proxyOn},
	{Key: KeyProxyPort, Tab: TabProxy, Label: "Proxy port", Kind: KindInt, Requires: proxyOn,
		Rule: optionalIntRule("Proxy port must be an integer.")},
	{Key: KeyProxyType, Tab: TabProxy, Label: "Proxy type", Kind: KindChoice, Requires: proxyOn,
		Options: []Option{{Label: ProxyHTTP, Value: ProxyHTTP}, {Label: ProxySOCKS, Value: ProxySOCKS}, {Label: ProxyDirect, Value: ProxyDirect}}},
	{Key: KeyProxyWhitelist, Tab: TabProxy, Label: "Bypass proxy for hosts", Kind: KindMultiline, Requires: proxyOn,
		Rule: Whitelist, Format: formatWhitelist},
	{Key: KeyProxyAuthenticate, Tab: TabProxy, Label: "Authentication required", Kind: KindBool, Requires: proxyOn},
	{Key: KeyProxyUser, Tab: TabProxy, Label: "Username", Kind: KindText, Requires: proxyAuth},
	{Key: KeyProxyPassword, Tab: TabProxy, Label: "Password", Kind: KindPassword, Requires: proxyAuth,
		Rule: encodePassword, Format: DecodePassword},

	// Database
	{Key: KeyDBHost, Tab: TabDatabase, Label: "Host", Kind: KindText},
	{Key: KeyDBName, Tab: TabDatabase, Label: "Database name", Kind: KindText},
	{Key: KeyDBPort, Tab: TabDatabase, Label: "Port", Kind: KindInt, Rule: dbPort, Format: formatDBPort},

	// Advanced
	{Key: KeyPortEnabled, Tab: TabAdvanced, Label: "Enable port", Kind: KindBool},
	{Key: KeyPortNumber, Tab: TabAdvanced, Label: "Port", Kind: KindInt,
		Requires: []Requirement{{Key: KeyPortEnabled, Checked: true}},
		Rule:     intRule("Port must be an integer.")},
	{Key: KeyAutoUpdateGenomes, Tab: TabAdvanced, Label: "Automatically check for updated genomes", Kind: KindBool},
	{Key: KeyGenomeServerURL, Tab: TabAdvanced, Label: "Genome server URL", Kind: KindText},
	{Key: KeyDataServerURL, Tab: TabAdvanced, Label: "Data registry URL", Kind: KindText},
	{Key: KeyBlatURL, Tab: TabAdvanced, Label: "BLAT URL", Kind: KindText},
	{Key: KeyBypassAutoDiscovery, Tab: TabAdvanced, Label: "Search for index files automatically", Kind: KindBool,
		CheckedValue: "false", UncheckedValue: "true"},
	{Key: KeyAntialiasing, Tab: TabAdvanced, Label: "Enable antialiasing", Kind: KindBool},
	{Key: KeyTooltipInitialDelay, Tab: TabAdvanced, Label: "Tooltip initial delay (ms)", Kind: KindInt,
		Rule: intRule("Tooltip initial delay must be a number.")},
	{Key: KeyTooltipReshowDelay, Tab: TabAdvanced, Label: "Tooltip reshow delay (ms)", Kind: KindInt,
		Rule: intRule("Tooltip reshow delay must be a number.")},
	{Key: KeyTooltipDismissDelay, Tab: TabAdvanced, Label: "Tooltip dismiss delay (ms)", Kind: KindInt,
		Rule: intRule("Tooltip dismiss delay must be a number.")},

	// Cram
	{Key: KeyCramCacheSequences, Tab: TabCram, Label: "Cache reference sequences", Kind: KindBool},
	{Key: KeyCramCacheSize, Tab: TabCram, Label: "Cache size (MB)", Kind: KindFloat,
		Requires: []Requirement{{Key: KeyCramCacheSequences, Checked: true}},
		Rule:     floatRule("Cache size must be a number")},
}

var fieldIndex = func() map[string]int {
	m := make(map[string]int, len(fields))
	for i, f := range fields {
		m[f.Key] = i
	}
	return m
}()

// Fields returns every bound field in display order.
func Fields() []Field {
	return append([]Field(nil), fields...)
}

// FieldsFor returns the fields shown on tab.
func FieldsFor(tab string) []Field {
	var out []Field
	for _, f := range fields {
		if f.Tab == tab {
			out = append(out, f)
		}
	}
	return out
}

// Lookup returns the field bound to key.
func Lookup(key string) (Field, bool) {
	i, ok := fieldIndex[key]
	if !ok {
		return Field{}, false
	}
	return fields[i], true
}
