// Package golang is the Go Parser collaborator (§6): it turns Go source
// into the engine's shared difftypes vocabulary using the same tree-sitter
// Go grammar the teacher's language providers used for DSL querying, walked
// here for function/class extraction instead.
package golang

import (
	"context"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"
	tsgolang "github.com/smacker/go-tree-sitter/golang"

	"github.com/oxhq/smartdiff/collab"
	"github.com/oxhq/smartdiff/difftypes"
)

// Provider parses Go source files into ParsedFunctions/ParsedClasses.
type Provider struct {
	parser *sitter.Parser
}

// New returns a ready-to-use Go Provider.
func New() *Provider {
	parser := sitter.NewParser()
	parser.SetLanguage(tsgolang.GetLanguage())
	return &Provider{parser: parser}
}

func (p *Provider) Language() string     { return "go" }
func (p *Provider) Extensions() []string { return []string{".go"} }

// Parse implements collab.Parser.
func (p *Provider) Parse(filePath, source string) (collab.ParseResult, error) {
	src := []byte(source)
	tree, err := p.parser.ParseCtx(context.TODO(), nil, src)
	if err != nil || tree == nil {
		return collab.ParseResult{}, difftypes.WrapError(difftypes.ErrParseFailure, err, "failed to parse %s", filePath)
	}
	defer tree.Close()

	var result collab.ParseResult
	root := tree.RootNode()
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		switch child.Type() {
		case "function_declaration", "method_declaration":
			result.Functions = append(result.Functions, p.extractFunction(child, src, filePath))
		case "type_declaration":
			if class, ok := p.extractClass(child, src, filePath); ok {
				result.Classes = append(result.Classes, class)
			}
		}
	}
	return result, nil
}

func (p *Provider) extractFunction(node *sitter.Node, src []byte, filePath string) collab.ParsedFunction {
	nameNode := node.ChildByFieldName("name")
	name := text(nameNode, src)

	kind := difftypes.KindFunction
	qualified := name
	var receiverType string
	if node.Type() == "method_declaration" {
		kind = difftypes.KindMethod
		if recv := node.ChildByFieldName("receiver"); recv != nil {
			receiverType = receiverTypeName(recv, src)
			if receiverType != "" {
				qualified = receiverType + "." + name
			}
		}
	}

	params := extractParameters(node.ChildByFieldName("parameters"), src)
	returnType := extractReturnType(node.ChildByFieldName("result"), src)

	body := node.ChildByFieldName("body")
	bodyAST := nodeToAST(body, src)
	if bodyAST == nil {
		bodyAST = &difftypes.ASTNode{Kind: difftypes.NodeBlock}
	}

	fnAST := &difftypes.ASTNode{
		Kind: difftypes.NodeFunction,
		Meta: difftypes.Metadata{
			Line:       int(node.StartPoint().Row) + 1,
			Attributes: map[string]string{"name": name},
		},
		Children: []*difftypes.ASTNode{
			difftypes.NewLeaf(difftypes.NodeIdentifier, difftypes.Metadata{Attributes: map[string]string{"name": name}}),
			bodyAST,
		},
	}

	sig := difftypes.EnhancedFunctionSignature{
		Name:          name,
		QualifiedName: qualified,
		Parameters:    params,
		ReturnType:    returnType,
		Visibility:    visibilityOf(name),
		Modifiers:     map[string]bool{},
		FilePath:      filePath,
		StartLine:     int(node.StartPoint().Row) + 1,
		EndLine:       int(node.EndPoint().Row) + 1,
		Column:        int(node.StartPoint().Column) + 1,
		Kind:          kind,
		HasMetrics:    true,
		Metrics:       complexityOf(bodyAST, params),
		Dependencies:  calleeNames(bodyAST),
	}

	return collab.ParsedFunction{Signature: sig, AST: fnAST}
}

func (p *Provider) extractClass(node *sitter.Node, src []byte, filePath string) (collab.ParsedClass, bool) {
	spec := findChildOfType(node, "type_spec")
	if spec == nil {
		return collab.ParsedClass{}, false
	}
	nameNode := spec.ChildByFieldName("name")
	typeNode := spec.ChildByFieldName("type")
	if nameNode == nil || typeNode == nil {
		return collab.ParsedClass{}, false
	}

	classNode := difftypes.ClassNode{Name: text(nameNode, src), FilePath: filePath}

	switch typeNode.Type() {
	case "struct_type":
		classNode.Fields = structFields(typeNode, src)
	case "interface_type":
		classNode.Methods = interfaceMethods(typeNode, src)
	default:
		return collab.ParsedClass{}, false
	}

	return collab.ParsedClass{Node: classNode}, true
}

func receiverTypeName(receiver *sitter.Node, src []byte) string {
	if receiver.NamedChildCount() == 0 {
		return ""
	}
	decl := receiver.NamedChild(0)
	typeNode := decl.ChildByFieldName("type")
	if typeNode == nil {
		return ""
	}
	if typeNode.Type() == "pointer_type" {
		if typeNode.NamedChildCount() > 0 {
			return text(typeNode.NamedChild(0), src)
		}
	}
	return text(typeNode, src)
}

func extractParameters(paramList *sitter.Node, src []byte) []difftypes.Parameter {
	if paramList == nil {
		return nil
	}
	var out []difftypes.Parameter
	position := 0
	for i := 0; i < int(paramList.NamedChildCount()); i++ {
		decl := paramList.NamedChild(i)
		if decl.Type() != "parameter_declaration" && decl.Type() != "variadic_parameter_declaration" {
			continue
		}
		typeNode := decl.ChildByFieldName("type")
		typeSig := parseTypeSignature(typeNode, src)
		variadic := decl.Type() == "variadic_parameter_declaration"

		names := fieldNames(decl, src)
		if len(names) == 0 {
			names = []string{""}
		}
		for _, n := range names {
			out = append(out, difftypes.Parameter{
				Name: n, Type: typeSig, Variadic: variadic, Position: position,
			})
			position++
		}
	}
	return out
}

func fieldNames(decl *sitter.Node, src []byte) []string {
	var names []string
	for i := 0; i < int(decl.NamedChildCount()); i++ {
		c := decl.NamedChild(i)
		if c.Type() == "identifier" || c.Type() == "field_identifier" {
			names = append(names, text(c, src))
		}
	}
	return names
}

func extractReturnType(result *sitter.Node, src []byte) difftypes.TypeSignature {
	if result == nil {
		return difftypes.TypeSignature{}
	}
	if result.Type() == "parameter_list" {
		var generics []difftypes.TypeSignature
		for i := 0; i < int(result.NamedChildCount()); i++ {
			decl := result.NamedChild(i)
			typeNode := decl.ChildByFieldName("type")
			if typeNode == nil {
				typeNode = decl
			}
			generics = append(generics, parseTypeSignature(typeNode, src))
		}
		if len(generics) == 1 {
			return generics[0]
		}
		return difftypes.TypeSignature{BaseName: "tuple", Generics: generics}
	}
	return parseTypeSignature(result, src)
}

func parseTypeSignature(node *sitter.Node, src []byte) difftypes.TypeSignature {
	if node == nil {
		return difftypes.TypeSignature{}
	}
	switch node.Type() {
	case "pointer_type":
		inner := parseTypeSignature(node.NamedChild(0), src)
		inner.Modifiers = mergeModifier(inner.Modifiers, "pointer")
		return inner
	case "slice_type":
		inner := parseTypeSignature(node.NamedChild(int(node.NamedChildCount())-1), src)
		inner.ArrayDims++
		return inner
	case "array_type":
		inner := parseTypeSignature(node.ChildByFieldName("element"), src)
		inner.ArrayDims++
		return inner
	case "generic_type":
		base := text(node.ChildByFieldName("type"), src)
		var generics []difftypes.TypeSignature
		if args := node.ChildByFieldName("type_arguments"); args != nil {
			for i := 0; i < int(args.NamedChildCount()); i++ {
				generics = append(generics, parseTypeSignature(args.NamedChild(i), src))
			}
		}
		return difftypes.TypeSignature{BaseName: base, Generics: generics}
	default:
		return difftypes.TypeSignature{BaseName: text(node, src)}
	}
}

func mergeModifier(m map[string]bool, key string) map[string]bool {
	out := map[string]bool{key: true}
	for k, v := range m {
		out[k] = v
	}
	return out
}

func structFields(structType *sitter.Node, src []byte) []string {
	var fields []string
	fieldList := findChildOfType(structType, "field_declaration_list")
	if fieldList == nil {
		return fields
	}
	for i := 0; i < int(fieldList.NamedChildCount()); i++ {
		decl := fieldList.NamedChild(i)
		if decl.Type() != "field_declaration" {
			continue
		}
		fields = append(fields, fieldNames(decl, src)...)
	}
	return fields
}

func interfaceMethods(ifaceType *sitter.Node, src []byte) []string {
	var methods []string
	for i := 0; i < int(ifaceType.NamedChildCount()); i++ {
		c := ifaceType.NamedChild(i)
		if c.Type() == "method_spec" {
			if n := c.ChildByFieldName("name"); n != nil {
				methods = append(methods, text(n, src))
			}
		}
	}
	return methods
}

func findChildOfType(node *sitter.Node, kind string) *sitter.Node {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		c := node.NamedChild(i)
		if c.Type() == kind {
			return c
		}
	}
	return nil
}

func text(node *sitter.Node, src []byte) string {
	if node == nil {
		return ""
	}
	return string(src[node.StartByte():node.EndByte()])
}

func visibilityOf(name string) difftypes.Visibility {
	if name == "" {
		return difftypes.Package
	}
	r := []rune(name)[0]
	if unicode.IsUpper(r) {
		return difftypes.Public
	}
	return difftypes.Package
}

var nodeKindMap = map[string]difftypes.NodeKind{
	"block":                      difftypes.NodeBlock,
	"if_statement":               difftypes.NodeIf,
	"for_statement":               difftypes.NodeFor,
	"expression_switch_statement": difftypes.NodeSwitch,
	"type_switch_statement":       difftypes.NodeSwitch,
	"select_statement":            difftypes.NodeSwitch,
	"call_expression":             difftypes.NodeCall,
	"identifier":                  difftypes.NodeIdentifier,
	"field_identifier":            difftypes.NodeIdentifier,
	"package_identifier":          difftypes.NodeIdentifier,
	"int_literal":                 difftypes.NodeLiteral,
	"float_literal":               difftypes.NodeLiteral,
	"rune_literal":                difftypes.NodeLiteral,
	"interpreted_string_literal":  difftypes.NodeLiteral,
	"raw_string_literal":          difftypes.NodeLiteral,
	"true":                        difftypes.NodeLiteral,
	"false":                       difftypes.NodeLiteral,
	"nil":                         difftypes.NodeLiteral,
	"binary_expression":           difftypes.NodeOperator,
	"unary_expression":            difftypes.NodeOperator,
	"assignment_statement":        difftypes.NodeAssignment,
	"short_var_declaration":       difftypes.NodeAssignment,
	"return_statement":            difftypes.NodeReturn,
	"parameter_declaration":       difftypes.NodeParameter,
	"type_declaration":            difftypes.NodeClass,
	"import_declaration":          difftypes.NodeImport,
}

// nodeToAST converts a tree-sitter node into the engine's shared ASTNode
// vocabulary, defaulting unrecognized constructs to NodeOther rather than
// dropping them, so unusual constructs still contribute structure/size to
// similarity and tree-edit comparisons.
func nodeToAST(node *sitter.Node, src []byte) *difftypes.ASTNode {
	if node == nil {
		return nil
	}
	kind, ok := nodeKindMap[node.Type()]
	if !ok {
		kind = difftypes.NodeOther
	}

	meta := difftypes.Metadata{
		Line:       int(node.StartPoint().Row) + 1,
		Column:     int(node.StartPoint().Column) + 1,
		Attributes: map[string]string{},
	}

	switch kind {
	case difftypes.NodeIdentifier:
		meta.Attributes["name"] = text(node, src)
		meta.Attributes["identifier"] = text(node, src)
	case difftypes.NodeLiteral:
		meta.Attributes["literal"] = text(node, src)
	case difftypes.NodeOperator:
		meta.Attributes["operator"] = operatorText(node, src)
	case difftypes.NodeAssignment:
		if lhs := leftHandName(node, src); lhs != "" {
			meta.Attributes["name"] = lhs
		}
	case difftypes.NodeCall:
		if fn := node.ChildByFieldName("function"); fn != nil {
			meta.Attributes["name"] = text(fn, src)
		}
	case difftypes.NodeParameter:
		for _, n := range fieldNames(node, src) {
			meta.Attributes["name"] = n
			break
		}
	}

	var children []*difftypes.ASTNode
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if c := nodeToAST(node.NamedChild(i), src); c != nil {
			children = append(children, c)
		}
	}

	return &difftypes.ASTNode{Kind: kind, Meta: meta, Children: children}
}

func operatorText(node *sitter.Node, src []byte) string {
	for i := 0; i < int(node.ChildCount()); i++ {
		c := node.Child(i)
		if !c.IsNamed() {
			return text(c, src)
		}
	}
	return ""
}

func leftHandName(node *sitter.Node, src []byte) string {
	if node.NamedChildCount() == 0 {
		return ""
	}
	lhs := node.NamedChild(0)
	if lhs.Type() == "expression_list" && lhs.NamedChildCount() > 0 {
		lhs = lhs.NamedChild(0)
	}
	return text(lhs, src)
}

func calleeNames(root *difftypes.ASTNode) []string {
	var names []string
	seen := map[string]bool{}
	root.Walk(func(n *difftypes.ASTNode) {
		if n.Kind != difftypes.NodeCall {
			return
		}
		name := n.Meta.Attr("name")
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		names = append(names, name)
	})
	return names
}

func complexityOf(body *difftypes.ASTNode, params []difftypes.Parameter) difftypes.ComplexityMetrics {
	cyclomatic := 1
	var branch, loop, call int
	body.Walk(func(n *difftypes.ASTNode) {
		switch n.Kind {
		case difftypes.NodeIf, difftypes.NodeSwitch:
			cyclomatic++
			branch++
		case difftypes.NodeFor:
			cyclomatic++
			loop++
		case difftypes.NodeCall:
			call++
		}
	})
	return difftypes.ComplexityMetrics{
		Cyclomatic:     cyclomatic,
		Cognitive:      cyclomatic - 1,
		LinesOfCode:    body.Depth() * 2,
		ParameterCount: len(params),
		BranchCount:    branch,
		LoopCount:      loop,
		CallCount:      call,
	}
}
