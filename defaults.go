package settings

// Setting keys recognised in a link fragment.
const (
	KeyTab        = "tab"
	KeyItems      = "items"
	KeyIgnore     = "ignore"
	KeyOverclock  = "overclock"
	KeyAmplifiers = "sloop"
	KeyTitle      = "title"
	KeyRate       = "rate"
	KeyRatePrec   = "rp"
	KeyCountPrec  = "cp"
	KeyFormat     = "vf"
	KeyColor      = "c"
	KeyBelt       = "belt"
	KeyPipe       = "pipe"
	KeyVisType    = "vt"
	KeyVisRender  = "vr"
	KeyDisable    = "disable"
	KeyMiners     = "miners"
	KeyPriority   = "priority"
	KeyDebug      = "debug"
)

const (
	DefaultTitle            = "Satisfactory Calculator"
	DefaultTab              = "totals"
	DefaultRateUnit         = "m"
	DefaultRatePrecision    = 3
	DefaultCountPrecision   = 1
	DefaultFormat           = FormatDecimal
	DefaultColorScheme      = "default"
	DefaultVisualizerType   = "sankey"
	DefaultVisualizerRender = "zoom"
)

// RateUnits maps rate unit keys to their long names.
var RateUnits = map[string]string{
	"s": "second",
	"m": "minute",
	"h": "hour",
}

var valueFormats = map[string]ValueFormat{
	"d": FormatDecimal,
	"r": FormatRational,
}

// VisualizerTypes lists the accepted "vt" values.
var VisualizerTypes = []string{"sankey", "boxline"}

// VisualizerRenders lists the accepted "vr" values.
var VisualizerRenders = []string{"zoom", "fix"}
