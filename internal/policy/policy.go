// Package policy is the single place that decides whether an actor may
// perform an order action, given the actor's role and the order's status.
package policy

import (
	"fmt"

	"go-warehouse-orders/internal/model"
	pkgerrors "go-warehouse-orders/pkg/errors"
)

type Action string

const (
	ActionCreateOrder   Action = "create_order"
	ActionEditOrder     Action = "edit_order" // add/remove item, change quantity, change customer name
	ActionPickItem      Action = "pick_item"
	ActionCompleteOrder Action = "complete_order"
	ActionReopenOrder   Action = "reopen_order"
	ActionDeleteOrder   Action = "delete_order"
	ActionViewOrder     Action = "view_order"
)

// Actions lists every action the policy knows about.
var Actions = []Action{
	ActionCreateOrder,
	ActionEditOrder,
	ActionPickItem,
	ActionCompleteOrder,
	ActionReopenOrder,
	ActionDeleteOrder,
	ActionViewOrder,
}

func (a Action) String() string {
	return string(a)
}

type Decision int

const (
	Deny Decision = iota
	Allow
)

func (d Decision) Allowed() bool {
	return d == Allow
}

func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "deny"
}

type rule struct {
	staffPending   Decision
	staffCompleted Decision
}

// Staff rows only; administrators are allowed every known action.
var staffRules = map[Action]rule{
	ActionCreateOrder:   {staffPending: Allow, staffCompleted: Allow},
	ActionEditOrder:     {staffPending: Allow, staffCompleted: Deny},
	ActionPickItem:      {staffPending: Allow, staffCompleted: Deny},
	ActionCompleteOrder: {staffPending: Allow, staffCompleted: Deny},
	ActionReopenOrder:   {staffPending: Deny, staffCompleted: Deny},
	ActionDeleteOrder:   {staffPending: Deny, staffCompleted: Deny},
	ActionViewOrder:     {staffPending: Allow, staffCompleted: Allow},
}

// CanPerform is a pure lookup; unknown roles, statuses or actions are denied.
func CanPerform(role model.Role, status model.OrderStatus, action Action) Decision {
	r, known := staffRules[action]
	if !known || !status.IsValid() {
		return Deny
	}
	switch role {
	case model.RoleAdmin:
		return Allow
	case model.RoleStaff:
		if status == model.OrderStatusCompleted {
			return r.staffCompleted
		}
		return r.staffPending
	default:
		return Deny
	}
}

// Check returns a FORBIDDEN error naming the action when the policy denies it.
func Check(actor model.Actor, status model.OrderStatus, action Action) error {
	if CanPerform(actor.Role, status, action).Allowed() {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeForbidden,
		fmt.Sprintf("%s cannot %s on a %s order", roleLabel(actor.Role), humanize(action), status))
}

func roleLabel(role model.Role) string {
	if role == "" {
		return "unknown role"
	}
	return string(role)
}

var actionLabels = map[Action]string{
	ActionCreateOrder:   "create orders",
	ActionEditOrder:     "edit items or customer",
	ActionPickItem:      "pick items",
	ActionCompleteOrder: "complete the order",
	ActionReopenOrder:   "reopen the order",
	ActionDeleteOrder:   "delete the order",
	ActionViewOrder:     "view the order",
}

func humanize(action Action) string {
	if label, ok := actionLabels[action]; ok {
		return label
	}
	return string(action)
}
