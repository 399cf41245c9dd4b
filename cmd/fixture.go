package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/sobalang/soba/cst"
	"github.com/sobalang/soba/loc"
)

// fixtureNode decodes the `lower` command's small JSON stand-in for real
// SL source (SPEC_FULL §4.10 — a real grammar is out of scope). Every
// fixture node carries a "kind" tag; decodeNode builds the matching cst.Node,
// minting a fresh synthetic Loc per node so the verifier's existent-Loc
// invariant holds even though there is no real source text to point at.
type fixtureNode struct {
	Kind string `json:"kind"`

	Text string `json:"text,omitempty"`
	Name string `json:"name,omitempty"`

	Scope json.RawMessage `json:"scope,omitempty"`
	Recv  json.RawMessage `json:"recv,omitempty"`
	Fun   string          `json:"fun,omitempty"`
	Args  []fixtureArg    `json:"args,omitempty"`
	Block *fixtureBlock   `json:"block,omitempty"`

	Op  string          `json:"op,omitempty"`
	Lhs json.RawMessage `json:"lhs,omitempty"`
	Rhs json.RawMessage `json:"rhs,omitempty"`

	Items []fixtureArrayItem `json:"items,omitempty"`

	Cond  json.RawMessage   `json:"cond,omitempty"`
	Then  json.RawMessage   `json:"then,omitempty"`
	Else  json.RawMessage   `json:"else,omitempty"`
	Until bool              `json:"until,omitempty"`
	Value json.RawMessage   `json:"value,omitempty"`
	Stmts []json.RawMessage `json:"stmts,omitempty"`

	SelfMethod bool            `json:"self_method,omitempty"`
	Params     []fixtureParam  `json:"params,omitempty"`
	Body       json.RawMessage `json:"single_body,omitempty"`

	ClassKind  string          `json:"class_kind,omitempty"`
	Superclass json.RawMessage `json:"superclass,omitempty"`
}

type fixtureArg struct {
	Value json.RawMessage `json:"value"`
	Splat bool            `json:"splat,omitempty"`
	Kwarg bool            `json:"kwarg,omitempty"`
	Block bool            `json:"block,omitempty"`
	Name  string          `json:"name,omitempty"`
}

type fixtureBlock struct {
	Params []fixtureParam    `json:"params,omitempty"`
	Stmts  []json.RawMessage `json:"body"`
}

type fixtureParam struct {
	Kind    string          `json:"kind"`
	Name    string          `json:"name"`
	Default json.RawMessage `json:"default,omitempty"`
	Nested  []fixtureParam  `json:"nested,omitempty"`
}

type fixtureArrayItem struct {
	Value json.RawMessage `json:"value"`
	Splat bool            `json:"splat,omitempty"`
}

// decoder mints a strictly-increasing synthetic byte offset per node so
// every cst.Node gets a distinct, existent Loc without a real source file.
type decoder struct {
	file loc.FileRef
	next int
}

func (d *decoder) loc() loc.Loc {
	start := d.next
	d.next++
	return loc.Loc{File: d.file, Start: start, Stop: start + 1}
}

func (d *decoder) body(raws []json.RawMessage) ([]cst.Node, error) {
	out := make([]cst.Node, len(raws))
	for i, r := range raws {
		n, err := d.decode(r)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

func (d *decoder) begin(raws []json.RawMessage) (cst.Node, error) {
	stmts, err := d.body(raws)
	if err != nil {
		return nil, err
	}
	return cst.BeginNode(d.loc(), stmts), nil
}

func (d *decoder) decodeOpt(raw json.RawMessage) (cst.Node, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	return d.decode(raw)
}

func (d *decoder) decode(raw json.RawMessage) (cst.Node, error) {
	var n fixtureNode
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, fmt.Errorf("fixture: %w", err)
	}

	switch n.Kind {
	case "int":
		return cst.LiteralNode(d.loc(), cst.IntLit, n.Text), nil
	case "float":
		return cst.LiteralNode(d.loc(), cst.FloatLit, n.Text), nil
	case "str":
		return cst.LiteralNode(d.loc(), cst.StringLit, n.Text), nil
	case "sym":
		return cst.LiteralNode(d.loc(), cst.SymbolLit, n.Text), nil
	case "true":
		return cst.LiteralNode(d.loc(), cst.TrueLit, ""), nil
	case "false":
		return cst.LiteralNode(d.loc(), cst.FalseLit, ""), nil
	case "nil":
		return cst.LiteralNode(d.loc(), cst.NilLit, ""), nil

	case "self":
		return cst.SelfNode(d.loc()), nil
	case "cbase":
		return cst.CbaseNode(d.loc()), nil

	case "lvar":
		return cst.IdentNode(d.loc(), cst.LocalVar, n.Name), nil
	case "ivar":
		return cst.IdentNode(d.loc(), cst.InstanceVar, n.Name), nil
	case "gvar":
		return cst.IdentNode(d.loc(), cst.GlobalVar, n.Name), nil
	case "cvar":
		return cst.IdentNode(d.loc(), cst.ClassVar, n.Name), nil

	case "const":
		scope, err := d.decodeOpt(n.Scope)
		if err != nil {
			return nil, err
		}
		return cst.ConstNode(d.loc(), scope, n.Name), nil

	case "send":
		return d.decodeSend(n)

	case "and", "or":
		lhs, err := d.decode(n.Lhs)
		if err != nil {
			return nil, err
		}
		rhs, err := d.decode(n.Rhs)
		if err != nil {
			return nil, err
		}
		op := cst.LogicalAnd
		if n.Kind == "or" {
			op = cst.LogicalOr
		}
		return cst.LogicalNode(d.loc(), op, lhs, rhs), nil

	case "assign":
		lhs, err := d.decode(n.Lhs)
		if err != nil {
			return nil, err
		}
		rhs, err := d.decode(n.Rhs)
		if err != nil {
			return nil, err
		}
		return cst.AssignNode(d.loc(), lhs, rhs), nil

	case "array":
		items := make([]cst.ArrayItem, len(n.Items))
		for i, it := range n.Items {
			v, err := d.decode(it.Value)
			if err != nil {
				return nil, err
			}
			items[i] = cst.ArrayItemOf(v, it.Splat)
		}
		return cst.ArrayNode(d.loc(), items), nil

	case "if":
		cond, err := d.decode(n.Cond)
		if err != nil {
			return nil, err
		}
		then, err := d.decodeOpt(n.Then)
		if err != nil {
			return nil, err
		}
		els, err := d.decodeOpt(n.Else)
		if err != nil {
			return nil, err
		}
		return cst.IfNode(d.loc(), cond, then, els), nil

	case "while":
		cond, err := d.decode(n.Cond)
		if err != nil {
			return nil, err
		}
		body, err := d.begin(n.Stmts)
		if err != nil {
			return nil, err
		}
		return cst.WhileNode(d.loc(), cond, body, n.Until, false), nil

	case "break":
		v, err := d.decodeOpt(n.Value)
		if err != nil {
			return nil, err
		}
		return cst.BreakNode(d.loc(), v), nil
	case "next":
		v, err := d.decodeOpt(n.Value)
		if err != nil {
			return nil, err
		}
		return cst.NextNode(d.loc(), v), nil
	case "return":
		v, err := d.decodeOpt(n.Value)
		if err != nil {
			return nil, err
		}
		return cst.ReturnNode(d.loc(), v), nil
	case "retry":
		return cst.RetryNode(d.loc()), nil

	case "begin":
		return d.begin(n.Stmts)

	case "def":
		params, err := d.decodeParams(n.Params)
		if err != nil {
			return nil, err
		}
		body, err := d.begin(n.Stmts)
		if err != nil {
			return nil, err
		}
		return cst.MethodDef(d.loc(), n.Name, n.SelfMethod, params, body), nil

	case "class", "module", "sclass":
		var name cst.Node
		var err error
		if n.Kind != "sclass" {
			name, err = d.decode(n.Scope)
			if err != nil {
				return nil, err
			}
		}
		superclass, err := d.decodeOpt(n.Superclass)
		if err != nil {
			return nil, err
		}
		stmts, err := d.body(n.Stmts)
		if err != nil {
			return nil, err
		}
		kind := cst.ClassKind
		switch n.Kind {
		case "module":
			kind = cst.ModuleKind
		case "sclass":
			kind = cst.SingletonClassKind
		}
		return cst.ClassDef(d.loc(), kind, name, superclass, stmts), nil

	default:
		return nil, fmt.Errorf("fixture: unknown node kind %q", n.Kind)
	}
}

func (d *decoder) decodeSend(n fixtureNode) (cst.Node, error) {
	recv, err := d.decodeOpt(n.Recv)
	if err != nil {
		return nil, err
	}
	args := make([]cst.Arg, len(n.Args))
	for i, a := range n.Args {
		v, err := d.decode(a.Value)
		if err != nil {
			return nil, err
		}
		args[i] = cst.ArgNode(d.loc(), v, a.Splat, a.Kwarg, a.Block, a.Name)
	}
	var block *cst.BlockNode
	if n.Block != nil {
		params, err := d.decodeParams(n.Block.Params)
		if err != nil {
			return nil, err
		}
		body, err := d.begin(n.Block.Stmts)
		if err != nil {
			return nil, err
		}
		block = cst.BlockNodeOf(d.loc(), params, body)
	}
	return cst.SendNode(d.loc(), recv, n.Fun, args, block), nil
}

func (d *decoder) decodeParams(params []fixtureParam) ([]cst.Param, error) {
	out := make([]cst.Param, len(params))
	for i, p := range params {
		kind, ok := paramKinds[p.Kind]
		if !ok {
			return nil, fmt.Errorf("fixture: unknown param kind %q", p.Kind)
		}
		def, err := d.decodeOpt(p.Default)
		if err != nil {
			return nil, err
		}
		nested, err := d.decodeParams(p.Nested)
		if err != nil {
			return nil, err
		}
		out[i] = cst.ParamNode(d.loc(), kind, p.Name, def, nested)
	}
	return out, nil
}

var paramKinds = map[string]cst.ParamKind{
	"positional":       cst.ParamPositional,
	"optional":         cst.ParamOptional,
	"rest":             cst.ParamRest,
	"keyword":          cst.ParamKeyword,
	"keyword_optional": cst.ParamKeywordOptional,
	"block":            cst.ParamBlock,
	"shadow":           cst.ParamShadow,
	"destructure":      cst.ParamDestructure,
}

// decodeFixture parses a top-level fixture: a JSON array of statements
// forming the file's body.
func decodeFixture(file loc.FileRef, data []byte) (cst.Node, error) {
	var stmts []json.RawMessage
	if err := json.Unmarshal(data, &stmts); err != nil {
		return nil, fmt.Errorf("fixture: top level must be a JSON array of statements: %w", err)
	}
	d := &decoder{file: file}
	return d.begin(stmts)
}
