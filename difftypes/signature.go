package difftypes

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Variance describes how a generic parameter's subtyping behaves.
type Variance string

const (
	Invariant     Variance = "invariant"
	Covariant     Variance = "covariant"
	Contravariant Variance = "contravariant"
)

// Visibility is the closed set of access modifiers the engine reasons about.
type Visibility string

const (
	Public    Visibility = "public"
	Private   Visibility = "private"
	Protected Visibility = "protected"
	Package   Visibility = "package"
	Internal  Visibility = "internal"
)

// FunctionKind distinguishes the different callable shapes a signature may
// describe.
type FunctionKind string

const (
	KindFunction      FunctionKind = "function"
	KindMethod        FunctionKind = "method"
	KindStaticMethod  FunctionKind = "static-method"
	KindConstructor   FunctionKind = "constructor"
	KindDestructor    FunctionKind = "destructor"
	KindGetter        FunctionKind = "getter"
	KindSetter        FunctionKind = "setter"
	KindOperatorFunc  FunctionKind = "operator"
	KindLambda        FunctionKind = "lambda"
	KindCallback      FunctionKind = "callback"
)

// TypeSignature is a recursive description of a type: a base name, ordered
// generic arguments, an array-dimension count, and a modifier set (e.g.
// "pointer", "nullable", "const").
type TypeSignature struct {
	BaseName  string
	Generics  []TypeSignature
	ArrayDims int
	Modifiers map[string]bool
}

// Equal reports structural equality.
func (t TypeSignature) Equal(o TypeSignature) bool {
	if t.BaseName != o.BaseName || t.ArrayDims != o.ArrayDims {
		return false
	}
	if len(t.Generics) != len(o.Generics) {
		return false
	}
	for i := range t.Generics {
		if !t.Generics[i].Equal(o.Generics[i]) {
			return false
		}
	}
	return modifierSetEqual(t.Modifiers, o.Modifiers)
}

func modifierSetEqual(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

// primitiveFamilies softens similarity between interchangeable base types
// across common naming conventions (e.g. "int"/"int32"/"integer").
var primitiveFamilies = map[string]string{
	"int": "integer", "int8": "integer", "int16": "integer", "int32": "integer",
	"int64": "integer", "integer": "integer", "long": "integer", "short": "integer",
	"uint": "integer", "uint8": "integer", "uint16": "integer", "uint32": "integer", "uint64": "integer",
	"float": "real", "float32": "real", "float64": "real", "double": "real", "real": "real",
	"string": "text", "str": "text", "text": "text", "char": "text",
	"bool": "boolean", "boolean": "boolean",
}

func family(baseName string) (string, bool) {
	f, ok := primitiveFamilies[strings.ToLower(baseName)]
	return f, ok
}

// Similarity returns a [0,1] similarity between two type signatures. Exact
// equality is 1.0; same primitive family softens the base-name mismatch;
// differing modifiers and array dimensions each penalise the score.
func (t TypeSignature) Similarity(o TypeSignature) float64 {
	if t.Equal(o) {
		return 1.0
	}

	baseScore := 0.0
	switch {
	case strings.EqualFold(t.BaseName, o.BaseName):
		baseScore = 1.0
	default:
		if fa, ok := family(t.BaseName); ok {
			if fb, ok2 := family(o.BaseName); ok2 && fa == fb {
				baseScore = 0.7
			}
		}
	}

	genericScore := 1.0
	if len(t.Generics) > 0 || len(o.Generics) > 0 {
		n := len(t.Generics)
		if len(o.Generics) > n {
			n = len(o.Generics)
		}
		if n == 0 {
			genericScore = 1.0
		} else {
			sum := 0.0
			for i := 0; i < n; i++ {
				if i < len(t.Generics) && i < len(o.Generics) {
					sum += t.Generics[i].Similarity(o.Generics[i])
				}
			}
			genericScore = sum / float64(n)
		}
	}

	arrayPenalty := 1.0
	if t.ArrayDims != o.ArrayDims {
		diff := t.ArrayDims - o.ArrayDims
		if diff < 0 {
			diff = -diff
		}
		arrayPenalty = 1.0 / float64(1+diff)
	}

	modScore := jaccardStringBoolSet(t.Modifiers, o.Modifiers)

	return (baseScore*0.5 + genericScore*0.25 + modScore*0.15) * arrayPenalty * 0.85
}

func jaccardStringBoolSet(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	union := map[string]bool{}
	inter := 0
	for k := range a {
		union[k] = true
		if b[k] {
			inter++
		}
	}
	for k := range b {
		union[k] = true
	}
	if len(union) == 0 {
		return 1.0
	}
	return float64(inter) / float64(len(union))
}

// Parameter describes a single function parameter.
type Parameter struct {
	Name        string
	Type        TypeSignature
	Default     string
	HasDefault  bool
	Optional    bool
	Variadic    bool
	Position    int
	Annotations []string
}

// GenericParam describes one generic/type parameter on a function.
type GenericParam struct {
	Name     string
	Bounds   []string
	Variance Variance
}

// ComplexityMetrics holds the per-function complexity facts an Analyzer
// collaborator may supply. All fields are optional; a zero value means "not
// computed" rather than "zero complexity" and callers should treat a metric
// as present only when HasMetrics is true on the enclosing signature.
type ComplexityMetrics struct {
	Cyclomatic      int
	Cognitive       int
	LinesOfCode     int
	ParameterCount  int
	MaxNestingDepth int
	BranchCount     int
	LoopCount       int
	CallCount       int
}

// EnhancedFunctionSignature is the normalized, language-agnostic description
// of a function an Analyzer collaborator must produce for each function it
// discovers.
type EnhancedFunctionSignature struct {
	Name              string
	QualifiedName     string
	Parameters        []Parameter
	ReturnType        TypeSignature
	Generics          []GenericParam
	Visibility        Visibility
	Modifiers         map[string]bool
	Annotations       map[string]bool
	FilePath          string
	StartLine         int
	EndLine           int
	Column            int
	Kind              FunctionKind
	HasMetrics        bool
	Metrics           ComplexityMetrics
	Dependencies      []string // callee names
}

// ExactHash fingerprints the signature by name, parameter names+types,
// modifiers, and return type: two signatures with the same exact hash are
// identical for matching purposes.
func (s EnhancedFunctionSignature) ExactHash() string {
	h := sha256.New()
	h.Write([]byte(s.Name))
	h.Write([]byte{0})
	for _, p := range s.Parameters {
		h.Write([]byte(p.Name))
		h.Write([]byte(p.Type.BaseName))
		h.Write([]byte{0})
	}
	mods := sortedKeys(s.Modifiers)
	for _, m := range mods {
		h.Write([]byte(m))
	}
	h.Write([]byte(s.ReturnType.BaseName))
	return hex.EncodeToString(h.Sum(nil))
}

// NormalizedHash fingerprints the signature in a name-insensitive way: the
// lower-cased name with underscores stripped, parameter types only (no
// names), and the return type only. Two renamed-but-otherwise-identical
// functions share a normalized hash.
func (s EnhancedFunctionSignature) NormalizedHash() string {
	h := sha256.New()
	name := strings.ToLower(strings.ReplaceAll(s.Name, "_", ""))
	h.Write([]byte(name))
	h.Write([]byte{0})
	for _, p := range s.Parameters {
		h.Write([]byte(strings.ToLower(p.Type.BaseName)))
		h.Write([]byte{0})
	}
	h.Write([]byte(strings.ToLower(s.ReturnType.BaseName)))
	return hex.EncodeToString(h.Sum(nil))
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k, v := range m {
		if v {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
