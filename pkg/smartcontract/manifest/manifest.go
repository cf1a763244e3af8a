// Package manifest implements the NEP-14 contract manifest: the ABI,
// permission, and group declarations a Neo N3 contract publishes
// alongside its NEF, as returned by the RPC getcontractstate method.
package manifest

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/nspcc-dev/neo-go-sdk/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go-sdk/pkg/smartcontract"
	"github.com/nspcc-dev/neo-go-sdk/pkg/util"
)

// Standard method/event name constants for NEP token standards this
// SDK's contract bindings recognize via Manifest.IsStandardSupported.
const (
	NEP17StandardName = "NEP-17"
	NEP11StandardName = "NEP-11"
	NEP26StandardName = "NEP-26"
	NEP27StandardName = "NEP-27"
)

// MethodDeploy/MethodVerify are the two well-known entry points every
// contract ABI may declare.
const (
	MethodDeploy = "_deploy"
	MethodVerify = "verify"
)

// ErrInvalidManifest is the umbrella error IsValid wraps every
// structural complaint in.
var ErrInvalidManifest = errors.New("manifest: invalid")

// PermissionType distinguishes a Permission's/Trust's target: every
// contract (wildcard), one specific contract hash, or every contract
// in a signer group.
type PermissionType byte

// The three permission target kinds.
const (
	PermissionWildcard PermissionType = iota
	PermissionHash
	PermissionGroup
)

// PermissionDesc is a Permission's or Trust's target: Type selects
// which of Value's dynamic types (none/util.Uint160/*keys.PublicKey)
// is meaningful.
type PermissionDesc struct {
	Type  PermissionType
	Value interface{}
}

// Hash returns Value as a Uint160; callers must check Type ==
// PermissionHash first.
func (p PermissionDesc) Hash() util.Uint160 { return p.Value.(util.Uint160) }

// Group returns Value as a PublicKey; callers must check Type ==
// PermissionGroup first.
func (p PermissionDesc) Group() *keys.PublicKey { return p.Value.(*keys.PublicKey) }

// MarshalJSON renders a wildcard as "*", a hash as its StringBE form,
// and a group as its compressed hex public key.
func (p PermissionDesc) MarshalJSON() ([]byte, error) {
	switch p.Type {
	case PermissionWildcard:
		return json.Marshal("*")
	case PermissionHash:
		return json.Marshal(p.Hash().StringBE())
	case PermissionGroup:
		return json.Marshal(p.Group().String())
	default:
		return nil, fmt.Errorf("%w: unknown permission desc type", ErrInvalidManifest)
	}
}

// UnmarshalJSON parses "*" as a wildcard, a "0x..." string as a hash,
// and any other hex string as a group public key.
func (p *PermissionDesc) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "*" {
		p.Type = PermissionWildcard
		p.Value = nil
		return nil
	}
	if strings.HasPrefix(s, "0x") {
		h, err := util.Uint160DecodeString(s)
		if err != nil {
			return err
		}
		p.Type = PermissionHash
		p.Value = h
		return nil
	}
	pk, err := keys.NewPublicKeyFromString(s)
	if err != nil {
		return err
	}
	p.Type = PermissionGroup
	p.Value = pk
	return nil
}

// WildStrings is a method-name allowlist: either every name
// (Wildcard) or exactly the names in Value.
type WildStrings struct {
	Wildcard bool
	Value    []string
}

// IsWildcard reports whether every name is allowed.
func (w WildStrings) IsWildcard() bool { return w.Wildcard }

// Contains reports whether name is explicitly allowed (false for a
// wildcard list — callers check IsWildcard first).
func (w WildStrings) Contains(name string) bool {
	for _, s := range w.Value {
		if s == name {
			return true
		}
	}
	return false
}

// Add appends name, turning a wildcard list into an explicit one is
// not implied — callers must Restrict() first.
func (w *WildStrings) Add(name string) { w.Value = append(w.Value, name) }

// Restrict turns w into an explicit empty list, discarding the
// wildcard.
func (w *WildStrings) Restrict() {
	w.Wildcard = false
	w.Value = []string{}
}

// MarshalJSON renders a wildcard as "*" and an explicit list as a JSON
// array.
func (w WildStrings) MarshalJSON() ([]byte, error) {
	if w.Wildcard {
		return json.Marshal("*")
	}
	if w.Value == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(w.Value)
}

// UnmarshalJSON parses "*" as a wildcard and a JSON array as an
// explicit list.
func (w *WildStrings) UnmarshalJSON(data []byte) error {
	var wild string
	if err := json.Unmarshal(data, &wild); err == nil {
		if wild != "*" {
			return fmt.Errorf("%w: expected \"*\", got %q", ErrInvalidManifest, wild)
		}
		w.Wildcard = true
		w.Value = nil
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	w.Wildcard = false
	w.Value = list
	return nil
}

// WildPermissionDescs is the Trusts list: either every contract
// (Wildcard) or exactly the PermissionDescs in Value.
type WildPermissionDescs struct {
	Wildcard bool
	Value    []PermissionDesc
}

// Add appends d to an already-restricted list.
func (w *WildPermissionDescs) Add(d PermissionDesc) { w.Value = append(w.Value, d) }

// Restrict turns w into an explicit empty list, discarding the
// wildcard.
func (w *WildPermissionDescs) Restrict() {
	w.Wildcard = false
	w.Value = []PermissionDesc{}
}

// Contains reports whether d (by Type and Value) is already present.
func (w WildPermissionDescs) Contains(d PermissionDesc) bool {
	for _, v := range w.Value {
		if v.Type != d.Type {
			continue
		}
		switch d.Type {
		case PermissionWildcard:
			return true
		case PermissionHash:
			if v.Hash().Equals(d.Hash()) {
				return true
			}
		case PermissionGroup:
			if v.Group().Bytes() != nil && d.Group().Bytes() != nil && string(v.Group().Bytes()) == string(d.Group().Bytes()) {
				return true
			}
		}
	}
	return false
}

// MarshalJSON renders a wildcard as "*" and an explicit list as a JSON
// array.
func (w WildPermissionDescs) MarshalJSON() ([]byte, error) {
	if w.Wildcard {
		return json.Marshal("*")
	}
	if w.Value == nil {
		return json.Marshal([]PermissionDesc{})
	}
	return json.Marshal(w.Value)
}

// UnmarshalJSON parses "*" as a wildcard and a JSON array as an
// explicit list.
func (w *WildPermissionDescs) UnmarshalJSON(data []byte) error {
	var wild string
	if err := json.Unmarshal(data, &wild); err == nil {
		if wild != "*" {
			return fmt.Errorf("%w: expected \"*\", got %q", ErrInvalidManifest, wild)
		}
		w.Wildcard = true
		w.Value = nil
		return nil
	}
	var list []PermissionDesc
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	w.Wildcard = false
	w.Value = list
	return nil
}

// Permission grants a contract's method calls against Contract the
// names in Methods.
type Permission struct {
	Contract PermissionDesc
	Methods  WildStrings
}

// NewPermission builds a Permission with a wildcard method list; value
// is the PermissionDesc's Value for PermissionHash/PermissionGroup
// (omit for PermissionWildcard).
func NewPermission(t PermissionType, value ...interface{}) *Permission {
	d := PermissionDesc{Type: t}
	if len(value) > 0 {
		d.Value = value[0]
	}
	return &Permission{
		Contract: d,
		Methods:  WildStrings{Wildcard: true},
	}
}

// IsAllowed reports whether this Permission lets the executing
// contract call method on the contract at h whose manifest is m.
func (p *Permission) IsAllowed(h util.Uint160, m *Manifest, method string) bool {
	switch p.Contract.Type {
	case PermissionWildcard:
	case PermissionHash:
		if !p.Contract.Hash().Equals(h) {
			return false
		}
	case PermissionGroup:
		if m == nil {
			return false
		}
		found := false
		for _, g := range m.Groups {
			if g.PublicKey.Bytes() != nil && string(g.PublicKey.Bytes()) == string(p.Contract.Group().Bytes()) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if p.Methods.IsWildcard() {
		return true
	}
	return p.Methods.Contains(method)
}

type permissionJSON struct {
	Contract PermissionDesc `json:"contract"`
	Methods  WildStrings    `json:"methods"`
}

// MarshalJSON renders the Permission in its RPC wire shape.
func (p Permission) MarshalJSON() ([]byte, error) {
	return json.Marshal(permissionJSON{p.Contract, p.Methods})
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (p *Permission) UnmarshalJSON(data []byte) error {
	var raw permissionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Contract = raw.Contract
	p.Methods = raw.Methods
	return nil
}

// Group asserts a signature, made by PublicKey over the deploying
// contract's hash, authorizing that contract to claim membership in
// this group (and so satisfy any PermissionGroup permission/trust).
type Group struct {
	PublicKey *keys.PublicKey
	Signature []byte
}

// IsValid reports whether Signature verifies over h.
func (g Group) IsValid(h util.Uint160) bool {
	return g.PublicKey.Verify(g.Signature, h.BytesBE())
}

type groupJSON struct {
	PublicKey string `json:"pubkey"`
	Signature string `json:"signature"`
}

// MarshalJSON renders PublicKey as compressed hex and Signature as
// base64.
func (g Group) MarshalJSON() ([]byte, error) {
	return json.Marshal(groupJSON{g.PublicKey.String(), base64.StdEncoding.EncodeToString(g.Signature)})
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (g *Group) UnmarshalJSON(data []byte) error {
	var raw groupJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	pk, err := keys.NewPublicKeyFromString(raw.PublicKey)
	if err != nil {
		return err
	}
	sig, err := base64.StdEncoding.DecodeString(raw.Signature)
	if err != nil {
		return err
	}
	g.PublicKey = pk
	g.Signature = sig
	return nil
}

// Parameter declares one ABI method/event parameter's name and type
// (carrying no value, unlike smartcontract.Parameter which is used for
// an actual contract-call argument).
type Parameter struct {
	Name string
	Type smartcontract.ParamType
}

// NewParameter builds a Parameter.
func NewParameter(name string, t smartcontract.ParamType) Parameter {
	return Parameter{Name: name, Type: t}
}

type parameterJSON struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// MarshalJSON renders Type by its protocol name.
func (p Parameter) MarshalJSON() ([]byte, error) {
	return json.Marshal(parameterJSON{p.Name, p.Type.String()})
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (p *Parameter) UnmarshalJSON(data []byte) error {
	var raw parameterJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t, err := smartcontract.ParseParamType(raw.Type)
	if err != nil {
		return err
	}
	p.Name = raw.Name
	p.Type = t
	return nil
}

// Method is one ABI-declared contract entry point.
type Method struct {
	Name       string
	Offset     int
	Parameters []Parameter
	ReturnType smartcontract.ParamType
	Safe       bool
}

type methodJSON struct {
	Name       string      `json:"name"`
	Offset     int         `json:"offset"`
	Parameters []Parameter `json:"parameters"`
	ReturnType string      `json:"returntype"`
	Safe       bool        `json:"safe"`
}

// MarshalJSON renders the Method in its RPC wire shape.
func (m Method) MarshalJSON() ([]byte, error) {
	params := m.Parameters
	if params == nil {
		params = []Parameter{}
	}
	return json.Marshal(methodJSON{m.Name, m.Offset, params, m.ReturnType.String(), m.Safe})
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (m *Method) UnmarshalJSON(data []byte) error {
	var raw methodJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	rt, err := smartcontract.ParseParamType(raw.ReturnType)
	if err != nil {
		return err
	}
	m.Name = raw.Name
	m.Offset = raw.Offset
	m.Parameters = raw.Parameters
	m.ReturnType = rt
	m.Safe = raw.Safe
	return nil
}

// Event is one ABI-declared notification a contract may emit.
type Event struct {
	Name       string
	Parameters []Parameter
}

type eventJSON struct {
	Name       string      `json:"name"`
	Parameters []Parameter `json:"parameters"`
}

// MarshalJSON renders the Event in its RPC wire shape.
func (e Event) MarshalJSON() ([]byte, error) {
	params := e.Parameters
	if params == nil {
		params = []Parameter{}
	}
	return json.Marshal(eventJSON{e.Name, params})
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (e *Event) UnmarshalJSON(data []byte) error {
	var raw eventJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.Name = raw.Name
	e.Parameters = raw.Parameters
	return nil
}

// ABI is a contract's full set of callable Methods and emittable
// Events.
type ABI struct {
	Methods []Method
	Events  []Event
}

// GetMethod returns the Method named name accepting paramCount
// parameters, or nil. paramCount<0 matches any parameter count.
func (a *ABI) GetMethod(name string, paramCount int) *Method {
	for i := range a.Methods {
		if a.Methods[i].Name == name && (paramCount < 0 || len(a.Methods[i].Parameters) == paramCount) {
			return &a.Methods[i]
		}
	}
	return nil
}

type abiJSON struct {
	Methods []Method `json:"methods"`
	Events  []Event  `json:"events"`
}

// MarshalJSON renders the ABI in its RPC wire shape.
func (a ABI) MarshalJSON() ([]byte, error) {
	methods, events := a.Methods, a.Events
	if methods == nil {
		methods = []Method{}
	}
	if events == nil {
		events = []Event{}
	}
	return json.Marshal(abiJSON{methods, events})
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (a *ABI) UnmarshalJSON(data []byte) error {
	var raw abiJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	a.Methods = raw.Methods
	a.Events = raw.Events
	return nil
}

// Manifest is a contract's full NEP-14 manifest, as returned by the
// RPC getcontractstate method.
type Manifest struct {
	Name                string
	Groups              []Group
	Features            json.RawMessage
	SupportedStandards  []string
	ABI                 ABI
	Permissions         []Permission
	Trusts              WildPermissionDescs
	Extra               json.RawMessage
}

var emptyFeatures = []byte("{}")

// NewManifest builds an otherwise-empty Manifest named name, with
// empty (not wildcard) Permissions/Trusts — callers typically want
// DefaultManifest instead.
func NewManifest(name string) *Manifest {
	return &Manifest{
		Name:               name,
		Groups:             []Group{},
		Features:           json.RawMessage(emptyFeatures),
		SupportedStandards: []string{},
		ABI:                ABI{Methods: []Method{}, Events: []Event{}},
		Permissions:        []Permission{},
		Trusts:             WildPermissionDescs{Value: []PermissionDesc{}},
	}
}

// DefaultManifest builds a Manifest named name with a wildcard
// Permission (call anything) and an empty Trusts list, the shape a
// freshly compiled contract starts from before the compiler narrows
// either.
func DefaultManifest(name string) *Manifest {
	m := NewManifest(name)
	m.Permissions = []Permission{*NewPermission(PermissionWildcard)}
	return m
}

// CanCall reports whether this Manifest's contract is permitted to
// call method on a contract at h whose manifest is target.
func (m *Manifest) CanCall(h util.Uint160, target *Manifest, method string) bool {
	for i := range m.Permissions {
		if m.Permissions[i].IsAllowed(h, target, method) {
			return true
		}
	}
	return false
}

// IsStandardSupported reports whether standard appears in
// SupportedStandards.
func (m *Manifest) IsStandardSupported(standard string) bool {
	if standard == "" {
		return false
	}
	for _, s := range m.SupportedStandards {
		if s == standard {
			return true
		}
	}
	return false
}

// IsValid checks the manifest's internal consistency against the
// contract it describes: a Name, at least one ABI method, valid
// (parseable, non-array-at-top-level) Features, no duplicate event
// names/parameter names, no duplicate permissions/supported standards,
// a non-empty Trusts declaration, and (if hasGroups) every Group's
// Signature verifying over contractHash.
func (m *Manifest) IsValid(contractHash util.Uint160, checkGroups bool) error {
	if m.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidManifest)
	}
	if len(m.ABI.Methods) == 0 {
		return fmt.Errorf("%w: no ABI methods", ErrInvalidManifest)
	}
	if len(m.Features) == 0 {
		return fmt.Errorf("%w: missing features", ErrInvalidManifest)
	}
	trimmed := bytes.TrimSpace(m.Features)
	if !bytes.Equal(trimmed, emptyFeatures) {
		return fmt.Errorf("%w: unsupported features %s", ErrInvalidManifest, m.Features)
	}

	seenEvents := make(map[string]bool, len(m.ABI.Events))
	for _, e := range m.ABI.Events {
		if seenEvents[e.Name] {
			return fmt.Errorf("%w: duplicate event %q", ErrInvalidManifest, e.Name)
		}
		seenEvents[e.Name] = true
		if err := checkDuplicateParams(e.Parameters); err != nil {
			return fmt.Errorf("%w: event %q: %w", ErrInvalidManifest, e.Name, err)
		}
	}

	seenPerms := make(map[string]bool, len(m.Permissions))
	for _, p := range m.Permissions {
		key := permissionKey(p.Contract)
		if seenPerms[key] {
			return fmt.Errorf("%w: duplicate permission", ErrInvalidManifest)
		}
		seenPerms[key] = true
	}

	seenStd := make(map[string]bool, len(m.SupportedStandards))
	for _, s := range m.SupportedStandards {
		if s == "" {
			return fmt.Errorf("%w: empty supported standard name", ErrInvalidManifest)
		}
		if seenStd[s] {
			return fmt.Errorf("%w: duplicate supported standard %q", ErrInvalidManifest, s)
		}
		seenStd[s] = true
	}

	if !m.Trusts.Wildcard && len(m.Trusts.Value) == 0 {
		return fmt.Errorf("%w: empty trusts", ErrInvalidManifest)
	}
	seenTrust := make(map[string]bool, len(m.Trusts.Value))
	for _, d := range m.Trusts.Value {
		key := permissionKey(d)
		if seenTrust[key] {
			return fmt.Errorf("%w: duplicate trust", ErrInvalidManifest)
		}
		seenTrust[key] = true
	}

	if checkGroups {
		for _, g := range m.Groups {
			if !g.IsValid(contractHash) {
				return fmt.Errorf("%w: group signature does not match contract hash", ErrInvalidManifest)
			}
		}
	}

	return nil
}

func checkDuplicateParams(params []Parameter) error {
	seen := make(map[string]bool, len(params))
	for _, p := range params {
		if seen[p.Name] {
			return fmt.Errorf("%w: duplicate parameter %q", ErrInvalidManifest, p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}

func permissionKey(d PermissionDesc) string {
	switch d.Type {
	case PermissionWildcard:
		return "*"
	case PermissionHash:
		return "h:" + d.Hash().String()
	case PermissionGroup:
		return "g:" + d.Group().String()
	default:
		return ""
	}
}

func extraToStackItem(raw []byte) []byte {
	var normalized bytes.Buffer
	if err := json.Compact(&normalized, raw); err != nil {
		return raw
	}
	return normalized.Bytes()
}

type manifestJSON struct {
	Groups              []Group              `json:"groups"`
	Features            json.RawMessage      `json:"features"`
	SupportedStandards  []string             `json:"supportedstandards"`
	Name                string               `json:"name"`
	ABI                 ABI                  `json:"abi"`
	Permissions         []Permission         `json:"permissions"`
	Trusts              WildPermissionDescs  `json:"trusts"`
	Extra               json.RawMessage      `json:"extra"`
}

// MarshalJSON renders the manifest in its RPC wire shape, matching the
// field order Neo N3's own manifest JSON uses.
func (m Manifest) MarshalJSON() ([]byte, error) {
	groups, standards := m.Groups, m.SupportedStandards
	if groups == nil {
		groups = []Group{}
	}
	if standards == nil {
		standards = []string{}
	}
	features := m.Features
	if len(features) == 0 {
		features = json.RawMessage(emptyFeatures)
	}
	extra := m.Extra
	if extra == nil {
		extra = json.RawMessage("null")
	}
	return json.Marshal(manifestJSON{groups, features, standards, m.Name, m.ABI, m.Permissions, m.Trusts, extra})
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (m *Manifest) UnmarshalJSON(data []byte) error {
	var raw manifestJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.Groups = raw.Groups
	m.Features = raw.Features
	m.SupportedStandards = raw.SupportedStandards
	m.Name = raw.Name
	m.ABI = raw.ABI
	m.Permissions = raw.Permissions
	m.Trusts = raw.Trusts
	m.Extra = raw.Extra
	return nil
}

// sortGroups orders Groups by public key bytes, used wherever a
// canonical ordering is needed before hashing/comparing manifests.
func sortGroups(groups []Group) {
	sort.Slice(groups, func(i, j int) bool {
		return string(groups[i].PublicKey.Bytes()) < string(groups[j].PublicKey.Bytes())
	})
}
