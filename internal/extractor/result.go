package extractor

// Path tells which strategy produced a Result.
type Path int

const (
	PathStrict Path = iota
	PathFenced
	PathFallback
)

func (p Path) String() string {
	switch p {
	case PathStrict:
		return "strict"
	case PathFenced:
		return "fenced"
	case PathFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// Result is either a StrictParse[T] or a FallbackParse.
type Result interface {
	Path() Path
	isResult()
}

// StrictParse holds a fully decoded document, taken either from the whole
// text or from its fenced code block.
type StrictParse[T any] struct {
	Doc    T
	Source Path
}

func (s StrictParse[T]) Path() Path { return s.Source }
func (StrictParse[T]) isResult()     {}

// FallbackParse holds the parallel per-field lists recovered from labeled text.
// Ordinals runs parallel to Texts or Numbers and holds the number written in
// each label ("Question 2:"), 0 when the label has none.
type FallbackParse struct {
	Texts    map[string][]string
	Numbers  map[string][]float64
	Ordinals map[string][]int
	Trailing map[string]string
}

func (FallbackParse) Path() Path { return PathFallback }
func (FallbackParse) isResult()   {}

func newFallbackParse() FallbackParse {
	return FallbackParse{
		Texts:    make(map[string][]string),
		Numbers:  make(map[string][]float64),
		Ordinals: make(map[string][]int),
		Trailing: make(map[string]string),
	}
}

// Pairs returns how many aligned entries the two named lists share.
func (f FallbackParse) Pairs(a, b string) int {
	return min(f.count(a), f.count(b))
}

func (f FallbackParse) count(name string) int {
	if n, ok := f.Numbers[name]; ok {
		return len(n)
	}
	return len(f.Texts[name])
}
