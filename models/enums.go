package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Every enumeration below has exactly one alias table. Values read from the
// store, from JSON payloads or from query strings go through it, so the rest
// of the code only ever sees canonical values.

type MachineStatus string

const (
	MachineActive      MachineStatus = "active"
	MachineStopped     MachineStatus = "stopped"
	MachineMaintenance MachineStatus = "maintenance"
	MachineWaiting     MachineStatus = "waiting"
)

type MachineType string

const (
	MachineNoPrint   MachineType = "no_print"
	MachineWithPrint MachineType = "with_print"
	MachineSpecial   MachineType = "special"
)

type OrderStatus string

const (
	OrderPending      OrderStatus = "pending"
	OrderInProduction OrderStatus = "in_production"
	OrderCompleted    OrderStatus = "completed"
	OrderDelivered    OrderStatus = "delivered"
	OrderCancelled    OrderStatus = "cancelled"
)

type Priority string

const (
	PriorityNormal  Priority = "normal"
	PrioritySpecial Priority = "special"
	PriorityUrgent  Priority = "urgent"
)

type RollStatus string

const (
	RollInStock  RollStatus = "in_stock"
	RollInUse    RollStatus = "in_use"
	RollConsumed RollStatus = "consumed"
)

var machineStatuses = enumTable[MachineStatus]{
	kind: "machine status",
	aliases: map[string]MachineStatus{
		"active":        MachineActive,
		"ativa":         MachineActive,
		"ativo":         MachineActive,
		"running":       MachineActive,
		"operando":      MachineActive,
		"em_operacao":   MachineActive,
		"stopped":       MachineStopped,
		"parada":        MachineStopped,
		"parado":        MachineStopped,
		"idle":          MachineStopped,
		"inactive":      MachineStopped,
		"inativa":       MachineStopped,
		"maintenance":   MachineMaintenance,
		"manutencao":    MachineMaintenance,
		"em_manutencao": MachineMaintenance,
		"waiting":       MachineWaiting,
		"aguardando":    MachineWaiting,
		"setup":         MachineWaiting,
		"standby":       MachineWaiting,
	},
}

var machineTypes = enumTable[MachineType]{
	kind: "machine type",
	aliases: map[string]MachineType{
		"no_print":      MachineNoPrint,
		"plain":         MachineNoPrint,
		"sem_impressao": MachineNoPrint,
		"with_print":    MachineWithPrint,
		"print":         MachineWithPrint,
		"com_impressao": MachineWithPrint,
		"special":       MachineSpecial,
		"especial":      MachineSpecial,
	},
}

var orderStatuses = enumTable[OrderStatus]{
	kind: "order status",
	aliases: map[string]OrderStatus{
		"pending":       OrderPending,
		"pendente":      OrderPending,
		"new":           OrderPending,
		"in_production": OrderInProduction,
		"in_progress":   OrderInProduction,
		"producing":     OrderInProduction,
		"producao":      OrderInProduction,
		"em_producao":   OrderInProduction,
		"completed":     OrderCompleted,
		"done":          OrderCompleted,
		"concluido":     OrderCompleted,
		"finalizado":    OrderCompleted,
		"delivered":     OrderDelivered,
		"entregue":      OrderDelivered,
		"cancelled":     OrderCancelled,
		"canceled":      OrderCancelled,
		"cancelado":     OrderCancelled,
	},
}

// Five business priorities collapse onto three stored values.
var priorities = enumTable[Priority]{
	kind: "priority",
	aliases: map[string]Priority{
		"urgent":   PriorityUrgent,
		"urgente":  PriorityUrgent,
		"high":     PriorityUrgent,
		"alta":     PriorityUrgent,
		"special":  PrioritySpecial,
		"especial": PrioritySpecial,
		"normal":   PriorityNormal,
		"medium":   PriorityNormal,
		"media":    PriorityNormal,
		"low":      PriorityNormal,
		"baixa":    PriorityNormal,
	},
}

var rollStatuses = enumTable[RollStatus]{
	kind: "roll status",
	aliases: map[string]RollStatus{
		"in_stock":   RollInStock,
		"estoque":    RollInStock,
		"em_estoque": RollInStock,
		"available":  RollInStock,
		"in_use":     RollInUse,
		"em_uso":     RollInUse,
		"consumed":   RollConsumed,
		"consumida":  RollConsumed,
		"consumido":  RollConsumed,
		"finished":   RollConsumed,
	},
}

func ParseMachineStatus(raw string) (MachineStatus, error) {
	return machineStatuses.parse(raw)
}

func ParseMachineType(raw string) (MachineType, error) {
	return machineTypes.parse(raw)
}

func ParseOrderStatus(raw string) (OrderStatus, error) {
	return orderStatuses.parse(raw)
}

func ParsePriority(raw string) (Priority, error) {
	return priorities.parse(raw)
}

func ParseRollStatus(raw string) (RollStatus, error) {
	return rollStatuses.parse(raw)
}

// PlannableStatuses are the order statuses whose lines can still be placed on a machine.
func PlannableStatuses() []OrderStatus {
	return []OrderStatus{OrderPending, OrderInProduction}
}

func (s OrderStatus) Plannable() bool {
	return s == OrderPending || s == OrderInProduction
}

// Rank orders priorities for display, most pressing first.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 0
	case PrioritySpecial:
		return 1
	default:
		return 2
	}
}

func (s MachineStatus) Value() (driver.Value, error) {
	return machineStatuses.value(s)
}

func (s *MachineStatus) Scan(src interface{}) error {
	return machineStatuses.scan(s, src)
}

func (s *MachineStatus) UnmarshalJSON(b []byte) error {
	return machineStatuses.unmarshal(s, b)
}

func (t MachineType) Value() (driver.Value, error) {
	return machineTypes.value(t)
}

func (t *MachineType) Scan(src interface{}) error {
	return machineTypes.scan(t, src)
}

func (t *MachineType) UnmarshalJSON(b []byte) error {
	return machineTypes.unmarshal(t, b)
}

func (s OrderStatus) Value() (driver.Value, error) {
	return orderStatuses.value(s)
}

func (s *OrderStatus) Scan(src interface{}) error {
	return orderStatuses.scan(s, src)
}

func (s *OrderStatus) UnmarshalJSON(b []byte) error {
	return orderStatuses.unmarshal(s, b)
}

func (p Priority) Value() (driver.Value, error) {
	return priorities.value(p)
}

func (p *Priority) Scan(src interface{}) error {
	return priorities.scan(p, src)
}

func (p *Priority) UnmarshalJSON(b []byte) error {
	return priorities.unmarshal(p, b)
}

func (s RollStatus) Value() (driver.Value, error) {
	return rollStatuses.value(s)
}

func (s *RollStatus) Scan(src interface{}) error {
	return rollStatuses.scan(s, src)
}

func (s *RollStatus) UnmarshalJSON(b []byte) error {
	return rollStatuses.unmarshal(s, b)
}

type enumTable[T ~string] struct {
	kind    string
	aliases map[string]T
}

func (t enumTable[T]) parse(raw string) (T, error) {
	if v, ok := t.aliases[normalizeEnumKey(raw)]; ok {
		return v, nil
	}
	return "", fmt.Errorf("unknown %s %q", t.kind, raw)
}

func (t enumTable[T]) value(v T) (driver.Value, error) {
	if v == "" {
		return "", nil
	}
	canonical, err := t.parse(string(v))
	if err != nil {
		return nil, err
	}
	return string(canonical), nil
}

func (t enumTable[T]) scan(dst *T, src interface{}) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*dst = ""
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("cannot scan %T into %s", src, t.kind)
	}
	if strings.TrimSpace(raw) == "" {
		*dst = ""
		return nil
	}
	v, err := t.parse(raw)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func (t enumTable[T]) unmarshal(dst *T, b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("%s must be a string: %w", t.kind, err)
	}
	// an empty value in a payload is never a valid state
	v, err := t.parse(raw)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func normalizeEnumKey(raw string) string {
	// transformer chains keep state, so each call builds its own
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	key, _, err := transform.String(stripMarks, raw)
	if err != nil {
		key = raw
	}
	key = strings.ToLower(strings.TrimSpace(key))
	return strings.NewReplacer("-", "_", " ", "_").Replace(key)
}
