package golang

import (
	"testing"

	"github.com/oxhq/smartdiff/difftypes"
)

const sampleSource = `package sample

type Greeter struct {
	Name string
}

func (g *Greeter) Greet(loud bool) string {
	if loud {
		return shout(g.Name)
	}
	for i := 0; i < 3; i++ {
		speak(g.Name)
	}
	return g.Name
}

func Add(a int, b int) int {
	return a + b
}

type Speaker interface {
	Speak(msg string) error
}
`

func TestParse_ExtractsFunctionsAndMethods(t *testing.T) {
	p := New()
	result, err := p.Parse("sample.go", sampleSource)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(result.Functions) != 2 {
		t.Fatalf("expected 2 functions, got %d", len(result.Functions))
	}

	var greet, add *difftypes.EnhancedFunctionSignature
	for i := range result.Functions {
		sig := &result.Functions[i].Signature
		switch sig.Name {
		case "Greet":
			greet = sig
		case "Add":
			add = sig
		}
	}

	if greet == nil {
		t.Fatal("Greet method not found")
	}
	if greet.Kind != difftypes.KindMethod {
		t.Errorf("expected Greet to be a method, got %s", greet.Kind)
	}
	if greet.QualifiedName != "Greeter.Greet" {
		t.Errorf("expected qualified name Greeter.Greet, got %s", greet.QualifiedName)
	}
	if greet.Visibility != difftypes.Public {
		t.Errorf("expected Greet to be public, got %s", greet.Visibility)
	}
	if len(greet.Parameters) != 1 || greet.Parameters[0].Name != "loud" {
		t.Errorf("unexpected parameters for Greet: %+v", greet.Parameters)
	}

	if add == nil {
		t.Fatal("Add function not found")
	}
	if add.Kind != difftypes.KindFunction {
		t.Errorf("expected Add to be a plain function, got %s", add.Kind)
	}
	if len(add.Parameters) != 2 {
		t.Errorf("expected 2 parameters for Add, got %d", len(add.Parameters))
	}
	if add.ReturnType.BaseName != "int" {
		t.Errorf("expected Add to return int, got %q", add.ReturnType.BaseName)
	}
}

func TestParse_BuildsASTShapeForControlFlowAndCalls(t *testing.T) {
	p := New()
	result, err := p.Parse("sample.go", sampleSource)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	var greetAST *difftypes.ASTNode
	for _, fn := range result.Functions {
		if fn.Signature.Name == "Greet" {
			greetAST = fn.AST
		}
	}
	if greetAST == nil {
		t.Fatal("Greet AST not found")
	}

	ifs := greetAST.CollectByKind(difftypes.NodeIf)
	if len(ifs) != 1 {
		t.Errorf("expected 1 if statement, got %d", len(ifs))
	}
	fors := greetAST.CollectByKind(difftypes.NodeFor)
	if len(fors) != 1 {
		t.Errorf("expected 1 for statement, got %d", len(fors))
	}
	calls := greetAST.CollectByKind(difftypes.NodeCall)
	if len(calls) < 2 {
		t.Errorf("expected at least 2 calls (shout, speak), got %d", len(calls))
	}

	var greetSig *difftypes.EnhancedFunctionSignature
	for i := range result.Functions {
		if result.Functions[i].Signature.Name == "Greet" {
			greetSig = &result.Functions[i].Signature
		}
	}
	foundShout, foundSpeak := false, false
	for _, dep := range greetSig.Dependencies {
		if dep == "shout" {
			foundShout = true
		}
		if dep == "speak" {
			foundSpeak = true
		}
	}
	if !foundShout || !foundSpeak {
		t.Errorf("expected dependencies to include shout and speak, got %v", greetSig.Dependencies)
	}
}

func TestParse_ExtractsStructAndInterface(t *testing.T) {
	p := New()
	result, err := p.Parse("sample.go", sampleSource)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(result.Classes) != 2 {
		t.Fatalf("expected 2 classes (struct + interface), got %d", len(result.Classes))
	}

	var greeter, speaker *difftypes.ClassNode
	for i := range result.Classes {
		c := &result.Classes[i].Node
		switch c.Name {
		case "Greeter":
			greeter = c
		case "Speaker":
			speaker = c
		}
	}

	if greeter == nil {
		t.Fatal("Greeter struct not found")
	}
	if len(greeter.Fields) != 1 || greeter.Fields[0] != "Name" {
		t.Errorf("unexpected fields for Greeter: %+v", greeter.Fields)
	}

	if speaker == nil {
		t.Fatal("Speaker interface not found")
	}
	if len(speaker.Methods) != 1 || speaker.Methods[0] != "Speak" {
		t.Errorf("unexpected methods for Speaker: %+v", speaker.Methods)
	}
}

func TestParse_EmptyFileProducesNoFunctionsOrClasses(t *testing.T) {
	p := New()
	result, err := p.Parse("empty.go", "package sample\n")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(result.Functions) != 0 || len(result.Classes) != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
}
