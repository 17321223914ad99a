package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go-warehouse-orders/internal/model"
	"go-warehouse-orders/internal/policy"
	"go-warehouse-orders/internal/repository"
	pkgerrors "go-warehouse-orders/pkg/errors"
	"go-warehouse-orders/pkg/logger"
	"go-warehouse-orders/pkg/metrics"
	"go-warehouse-orders/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	opCreateOrder    = "create_order"
	opAddItem        = "add_item"
	opRemoveItem     = "remove_item"
	opChangeQuantity = "change_quantity"
	opChangeCustomer = "change_customer"
	opPickItem       = "pick_item"
	opChangeStatus   = "change_status"
	opDeleteOrder    = "delete_order"

	defaultOrderLimit = 50
	maxOrderLimit     = 200

	// upper bound on sequence values skipped because a custom number took them
	maxNumberAttempts = 1000
)

type CreateOrderLine struct {
	SKU      string `json:"sku" validate:"trimmed_required,max=50"`
	Quantity int    `json:"quantity_required" validate:"gte=1"`
}

type CreateOrderRequest struct {
	// OrderNumber is optional; the next sequential number is used when empty.
	OrderNumber  string            `json:"order_id" validate:"max=50"`
	CustomerName string            `json:"customer_name" validate:"trimmed_required,max=255"`
	Items        []CreateOrderLine `json:"items" validate:"required,min=1,dive"`
}

type AddItemRequest struct {
	SKU      string `json:"sku" validate:"trimmed_required,max=50"`
	Quantity int    `json:"quantity_required" validate:"gte=1"`
	Reason   string `json:"reason" validate:"max=1000"`
}

type OrderListFilter struct {
	Status string
	Limit  int
	Skip   int
}

// OrderService is the only entry point for changing orders. Each mutation is
// atomic: the order change, any stock movement and its audit entry commit
// together or not at all.
type OrderService interface {
	CreateOrder(ctx context.Context, actor model.Actor, req CreateOrderRequest) (*model.Order, error)
	AddItem(ctx context.Context, actor model.Actor, orderID uuid.UUID, req AddItemRequest) (*model.Order, error)
	RemoveItem(ctx context.Context, actor model.Actor, orderID, itemID uuid.UUID, reason string) (*model.Order, error)
	ChangeQuantity(ctx context.Context, actor model.Actor, orderID, itemID uuid.UUID, newQty int, reason string) (*model.Order, error)
	ChangeCustomerName(ctx context.Context, actor model.Actor, orderID uuid.UUID, name, reason string) (*model.Order, error)
	PickItem(ctx context.Context, actor model.Actor, orderID, itemID uuid.UUID) (*model.Order, error)
	ChangeStatus(ctx context.Context, actor model.Actor, orderID uuid.UUID, status model.OrderStatus, reason string) (*model.Order, error)
	DeleteOrder(ctx context.Context, actor model.Actor, orderID uuid.UUID, reason string) error

	GetOrder(ctx context.Context, actor model.Actor, orderID uuid.UUID) (*model.Order, error)
	ListOrders(ctx context.Context, actor model.Actor, filter OrderListFilter) ([]model.Order, error)
	NextOrderNumber(ctx context.Context) (string, error)
	History(ctx context.Context, actor model.Actor, orderID uuid.UUID) ([]model.OrderModification, error)
	HistoryByNumber(ctx context.Context, actor model.Actor, orderNumber string) ([]model.OrderModification, error)
}

// OrderRepositories groups the stores the order engine coordinates.
type OrderRepositories struct {
	Orders    repository.OrderRepository
	Products  repository.ProductRepository
	Ledger    repository.StockLedger
	Audit     repository.AuditRepository
	Movements repository.MovementRepository
	Sequences repository.SequenceRepository
}

type orderService struct {
	db      *gorm.DB
	repos   OrderRepositories
	log     *logger.Logger
	metrics *metrics.OrderMetrics
}

func NewOrderService(db *gorm.DB, repos OrderRepositories, log *logger.Logger, m *metrics.OrderMetrics) OrderService {
	if log == nil {
		log = logger.Nop()
	}
	return &orderService{
		db:      db,
		repos:   repos,
		log:     log,
		metrics: m,
	}
}

// orderTx carries one engine transaction: the stores bound to tx, the
// acting identity and the stock movements applied so far.
type orderTx struct {
	s       *orderService
	tx      *gorm.DB
	actor   model.Actor
	applied []model.MovementType
	deleted bool
}

func (o *orderTx) orders() repository.OrderRepository {
	return o.s.repos.Orders.WithTx(o.tx)
}

func (o *orderTx) products() repository.ProductRepository {
	return o.s.repos.Products.WithTx(o.tx)
}

func (o *orderTx) deduct(ctx context.Context, sku string, qty int, kind model.MovementType, orderNumber string) error {
	if err := o.s.repos.Ledger.WithTx(o.tx).Deduct(ctx, sku, qty); err != nil {
		return err
	}
	return o.record(ctx, sku, kind, -qty, orderNumber)
}

// restore gives qty back to sku. A product deleted since the pick has no
// stock to restore, so the movement is skipped.
func (o *orderTx) restore(ctx context.Context, sku string, qty int, kind model.MovementType, orderNumber string) error {
	err := o.s.repos.Ledger.WithTx(o.tx).Restore(ctx, sku, qty)
	if pkgerrors.Is(err, pkgerrors.CodeNotFound) {
		o.s.log.Warn(o.s.log.WithFields(ctx, map[string]any{"sku": sku, "quantity": qty}),
			"product no longer exists, stock restore skipped")
		return nil
	}
	if err != nil {
		return err
	}
	return o.record(ctx, sku, kind, qty, orderNumber)
}

func (o *orderTx) record(ctx context.Context, sku string, kind model.MovementType, qty int, orderNumber string) error {
	movement := &model.StockMovement{
		SKU:         sku,
		ChangeType:  kind,
		Quantity:    qty,
		OrderNumber: orderNumber,
		PerformedBy: o.actor.ID,
	}
	if err := o.s.repos.Movements.WithTx(o.tx).Record(ctx, movement); err != nil {
		return mapStorageError(err, "stock movement")
	}
	o.applied = append(o.applied, kind)
	return nil
}

func (o *orderTx) logChange(ctx context.Context, order *model.Order, kind model.ModificationType, field, oldValue, newValue, reason string) error {
	entry := &model.OrderModification{
		OrderID:        order.ID,
		OrderNumber:    order.OrderNumber,
		ModifiedByID:   o.actor.ID,
		ModifiedByName: o.actor.Name,
		Type:           kind,
		FieldChanged:   field,
		OldValue:       oldValue,
		NewValue:       newValue,
		Reason:         reasonPtr(reason),
	}
	if err := o.s.repos.Audit.WithTx(o.tx).Append(ctx, entry); err != nil {
		return mapStorageError(err, "audit entry")
	}
	return nil
}

// inOrderTx loads the order with its row locked and runs fn in the same
// transaction. The order's updated_at is bumped unless fn deleted it.
func (s *orderService) inOrderTx(ctx context.Context, actor model.Actor, orderID uuid.UUID, fn func(otx *orderTx, order *model.Order) error) error {
	otx := &orderTx{s: s, actor: actor}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		otx.tx = tx
		order, err := otx.orders().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return mapStorageError(err, "order")
		}
		if err := fn(otx, order); err != nil {
			return err
		}
		if otx.deleted {
			return nil
		}
		if err := otx.orders().UpdateFields(ctx, order.ID, map[string]interface{}{"updated_at": time.Now().UTC()}); err != nil {
			return mapStorageError(err, "order")
		}
		return nil
	})
	if err != nil {
		return mapStorageError(err, "order")
	}
	for _, kind := range otx.applied {
		s.metrics.IncMovement(string(kind))
	}
	return nil
}

func (s *orderService) observe(ctx context.Context, operation string, started time.Time, err error) {
	s.metrics.Observe(operation, started, err)
	if err == nil {
		return
	}
	if pkgerrors.CodeOf(err) == pkgerrors.CodeInternal {
		s.log.Error(ctx, operation+" failed", err)
		return
	}
	s.log.Debug(s.log.WithField(ctx, "error", err.Error()), operation+" rejected")
}

func (s *orderService) reload(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.repos.Orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, mapStorageError(err, "order")
	}
	return order, nil
}

func (s *orderService) actorContext(ctx context.Context, actor model.Actor) context.Context {
	return s.log.WithActor(ctx, actor.ID.String(), actor.Role.String())
}

// mergeLines sums quantities of repeated SKUs, keeping first-seen order.
func mergeLines(lines []CreateOrderLine) []CreateOrderLine {
	merged := make([]CreateOrderLine, 0, len(lines))
	index := make(map[string]int, len(lines))
	for _, line := range lines {
		sku := strings.TrimSpace(line.SKU)
		if i, ok := index[sku]; ok {
			merged[i].Quantity += line.Quantity
			continue
		}
		index[sku] = len(merged)
		merged = append(merged, CreateOrderLine{SKU: sku, Quantity: line.Quantity})
	}
	return merged
}

func normalizeOrderNumber(number string) string {
	return strings.ToUpper(strings.TrimSpace(number))
}

func (s *orderService) CreateOrder(ctx context.Context, actor model.Actor, req CreateOrderRequest) (order *model.Order, err error) {
	started := time.Now()
	ctx = s.actorContext(ctx, actor)
	defer func() { s.observe(ctx, opCreateOrder, started, err) }()

	if err = requireActor(actor); err != nil {
		return nil, err
	}
	if err = validator.Validate(&req); err != nil {
		return nil, err
	}
	if err = policy.Check(actor, model.OrderStatusPending, policy.ActionCreateOrder); err != nil {
		return nil, err
	}

	created := &model.Order{
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CreatedByID:   actor.ID,
		CreatedByName: actor.Name,
		Status:        model.OrderStatusPending,
	}
	lines := mergeLines(req.Items)
	custom := normalizeOrderNumber(req.OrderNumber)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := s.repos.Products.WithTx(tx)
		for i, line := range lines {
			product, err := products.FindBySKU(ctx, line.SKU)
			if err != nil {
				return mapStorageError(err, "product with SKU "+line.SKU)
			}
			created.Items = append(created.Items, model.OrderItem{
				SKU:              product.SKU,
				ProductName:      product.Name,
				LocationCode:     product.LocationCode,
				LineNo:           i + 1,
				QuantityRequired: line.Quantity,
				PickingStatus:    model.PickingStatusPending,
			})
		}

		number, err := s.assignNumber(ctx, tx, custom)
		if err != nil {
			return err
		}
		created.OrderNumber = number

		if err := s.repos.Orders.WithTx(tx).Create(ctx, created); err != nil {
			return mapStorageError(err, "order "+number)
		}
		return nil
	})
	if err != nil {
		return nil, mapStorageError(err, "order")
	}

	s.log.Info(s.log.WithFields(s.log.WithOrderNumber(ctx, created.OrderNumber), map[string]any{
		"items": len(created.Items),
	}), "order created")
	return created, nil
}

// assignNumber returns the custom number when it is free, or the next
// sequential number not already taken.
func (s *orderService) assignNumber(ctx context.Context, tx *gorm.DB, custom string) (string, error) {
	if custom != "" {
		taken, err := s.numberTaken(ctx, tx, custom)
		if err != nil {
			return "", err
		}
		if taken {
			return "", pkgerrors.Newf(pkgerrors.CodeConflict, "order number %s already exists", custom)
		}
		return custom, nil
	}

	sequences := s.repos.Sequences.WithTx(tx)
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		n, err := sequences.Next(ctx, model.OrderNumberSequence)
		if err != nil {
			return "", mapStorageError(err, "order sequence")
		}
		number := model.FormatOrderNumber(n)
		taken, err := s.numberTaken(ctx, tx, number)
		if err != nil {
			return "", err
		}
		if !taken {
			return number, nil
		}
	}
	return "", pkgerrors.New(pkgerrors.CodeConflict, "no free order number available")
}

// numberTaken reports whether number belongs to a live order or to a deleted
// one whose history is still logged under it. Numbers are never reused, so
// history by number always describes a single order.
func (s *orderService) numberTaken(ctx context.Context, tx *gorm.DB, number string) (bool, error) {
	exists, err := s.repos.Orders.WithTx(tx).NumberExists(ctx, number)
	if err != nil {
		return false, mapStorageError(err, "order")
	}
	if exists {
		return true, nil
	}
	used, err := s.repos.Audit.WithTx(tx).NumberUsed(ctx, number)
	if err != nil {
		return false, mapStorageError(err, "order history")
	}
	return used, nil
}

func (s *orderService) AddItem(ctx context.Context, actor model.Actor, orderID uuid.UUID, req AddItemRequest) (order *model.Order, err error) {
	started := time.Now()
	ctx = s.actorContext(ctx, actor)
	defer func() { s.observe(ctx, opAddItem, started, err) }()

	if err = requireActor(actor); err != nil {
		return nil, err
	}
	if err = validator.Validate(&req); err != nil {
		return nil, err
	}
	sku := strings.TrimSpace(req.SKU)

	err = s.inOrderTx(ctx, actor, orderID, func(otx *orderTx, order *model.Order) error {
		if err := policy.Check(actor, order.Status, policy.ActionEditOrder); err != nil {
			return err
		}
		product, err := otx.products().FindBySKU(ctx, sku)
		if err != nil {
			return mapStorageError(err, "product with SKU "+sku)
		}

		if existing := order.FindItemBySKU(product.SKU); existing != nil {
			oldValue := existing.Describe()
			newQty := existing.QuantityRequired + req.Quantity
			if existing.IsPicked() {
				if err := otx.deduct(ctx, existing.SKU, req.Quantity, model.MovementAddItemMerge, order.OrderNumber); err != nil {
					return err
				}
			}
			if err := otx.orders().UpdateItemFields(ctx, existing.ID, map[string]interface{}{"quantity_required": newQty}); err != nil {
				return mapStorageError(err, "order item")
			}
			return otx.logChange(ctx, order, model.ModAddItem, "items", oldValue, model.DescribeLine(existing.SKU, newQty), req.Reason)
		}

		item := &model.OrderItem{
			OrderID:          order.ID,
			SKU:              product.SKU,
			ProductName:      product.Name,
			LocationCode:     product.LocationCode,
			LineNo:           order.NextLineNo(),
			QuantityRequired: req.Quantity,
			PickingStatus:    model.PickingStatusPending,
		}
		if err := otx.orders().CreateItem(ctx, item); err != nil {
			return mapStorageError(err, "order item")
		}
		return otx.logChange(ctx, order, model.ModAddItem, "items", "", item.Describe(), req.Reason)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(s.log.WithField(ctx, "sku", sku), "order item added")
	return s.reload(ctx, orderID)
}

func (s *orderService) RemoveItem(ctx context.Context, actor model.Actor, orderID, itemID uuid.UUID, reason string) (order *model.Order, err error) {
	started := time.Now()
	ctx = s.actorContext(ctx, actor)
	defer func() { s.observe(ctx, opRemoveItem, started, err) }()

	if err = requireActor(actor); err != nil {
		return nil, err
	}

	err = s.inOrderTx(ctx, actor, orderID, func(otx *orderTx, order *model.Order) error {
		if err := policy.Check(actor, order.Status, policy.ActionEditOrder); err != nil {
			return err
		}
		item := order.FindItem(itemID)
		if item == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order item not found")
		}
		if item.IsPicked() {
			if err := otx.restore(ctx, item.SKU, item.QuantityRequired, model.MovementReversalRemoveItem, order.OrderNumber); err != nil {
				return err
			}
		}
		if err := otx.orders().DeleteItem(ctx, item.ID); err != nil {
			return mapStorageError(err, "order item")
		}
		return otx.logChange(ctx, order, model.ModRemoveItem, "items", item.Describe(), "", reason)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(s.log.WithField(ctx, "item_id", itemID.String()), "order item removed")
	return s.reload(ctx, orderID)
}

func (s *orderService) ChangeQuantity(ctx context.Context, actor model.Actor, orderID, itemID uuid.UUID, newQty int, reason string) (order *model.Order, err error) {
	started := time.Now()
	ctx = s.actorContext(ctx, actor)
	defer func() { s.observe(ctx, opChangeQuantity, started, err) }()

	if err = requireActor(actor); err != nil {
		return nil, err
	}
	if newQty < 1 {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "quantity must be at least 1, got %d", newQty)
	}

	err = s.inOrderTx(ctx, actor, orderID, func(otx *orderTx, order *model.Order) error {
		if err := policy.Check(actor, order.Status, policy.ActionEditOrder); err != nil {
			return err
		}
		item := order.FindItem(itemID)
		if item == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order item not found")
		}
		oldQty := item.QuantityRequired
		if newQty == oldQty {
			return pkgerrors.Newf(pkgerrors.CodeValidation, "quantity is already %d", oldQty)
		}

		if item.IsPicked() {
			delta := newQty - oldQty
			var err error
			if delta > 0 {
				err = otx.deduct(ctx, item.SKU, delta, model.MovementQtyAdjustment, order.OrderNumber)
			} else {
				err = otx.restore(ctx, item.SKU, -delta, model.MovementQtyAdjustment, order.OrderNumber)
			}
			if err != nil {
				return err
			}
		}

		if err := otx.orders().UpdateItemFields(ctx, item.ID, map[string]interface{}{"quantity_required": newQty}); err != nil {
			return mapStorageError(err, "order item")
		}
		return otx.logChange(ctx, order, model.ModQtyChange, fmt.Sprintf("quantity (%s)", item.SKU),
			strconv.Itoa(oldQty), strconv.Itoa(newQty), reason)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(s.log.WithFields(ctx, map[string]any{"item_id": itemID.String(), "quantity": newQty}), "order item quantity changed")
	return s.reload(ctx, orderID)
}

func (s *orderService) ChangeCustomerName(ctx context.Context, actor model.Actor, orderID uuid.UUID, name, reason string) (order *model.Order, err error) {
	started := time.Now()
	ctx = s.actorContext(ctx, actor)
	defer func() { s.observe(ctx, opChangeCustomer, started, err) }()

	if err = requireActor(actor); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name cannot be empty")
	}
	if len(name) > 255 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name must be at most 255 characters")
	}

	err = s.inOrderTx(ctx, actor, orderID, func(otx *orderTx, order *model.Order) error {
		if err := policy.Check(actor, order.Status, policy.ActionEditOrder); err != nil {
			return err
		}
		if order.CustomerName == name {
			return pkgerrors.New(pkgerrors.CodeValidation, "customer name is unchanged")
		}
		if err := otx.orders().UpdateFields(ctx, order.ID, map[string]interface{}{"customer_name": name}); err != nil {
			return mapStorageError(err, "order")
		}
		return otx.logChange(ctx, order, model.ModCustomerChange, "customer_name", order.CustomerName, name, reason)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "order customer changed")
	return s.reload(ctx, orderID)
}

// PickItem deducts the line's quantity from stock and marks it picked.
// Picking a line twice is a conflict, so stock is deducted exactly once.
func (s *orderService) PickItem(ctx context.Context, actor model.Actor, orderID, itemID uuid.UUID) (order *model.Order, err error) {
	started := time.Now()
	ctx = s.actorContext(ctx, actor)
	defer func() { s.observe(ctx, opPickItem, started, err) }()

	if err = requireActor(actor); err != nil {
		return nil, err
	}

	err = s.inOrderTx(ctx, actor, orderID, func(otx *orderTx, order *model.Order) error {
		if err := policy.Check(actor, order.Status, policy.ActionPickItem); err != nil {
			return err
		}
		item := order.FindItem(itemID)
		if item == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order item not found")
		}
		if item.IsPicked() {
			return pkgerrors.Newf(pkgerrors.CodeConflict, "item %s already picked", item.SKU)
		}
		if err := otx.deduct(ctx, item.SKU, item.QuantityRequired, model.MovementSale, order.OrderNumber); err != nil {
			return err
		}
		if err := otx.orders().UpdateItemFields(ctx, item.ID, map[string]interface{}{"picking_status": model.PickingStatusPicked}); err != nil {
			return mapStorageError(err, "order item")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(s.log.WithField(ctx, "item_id", itemID.String()), "order item picked")
	return s.reload(ctx, orderID)
}

func (s *orderService) ChangeStatus(ctx context.Context, actor model.Actor, orderID uuid.UUID, status model.OrderStatus, reason string) (order *model.Order, err error) {
	started := time.Now()
	ctx = s.actorContext(ctx, actor)
	defer func() { s.observe(ctx, opChangeStatus, started, err) }()

	if err = requireActor(actor); err != nil {
		return nil, err
	}
	if !status.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid order status %q", status)
	}

	err = s.inOrderTx(ctx, actor, orderID, func(otx *orderTx, order *model.Order) error {
		if order.Status == status {
			return pkgerrors.Newf(pkgerrors.CodeValidation, "order is already %s", status)
		}
		action := policy.ActionReopenOrder
		if status == model.OrderStatusCompleted {
			action = policy.ActionCompleteOrder
		}
		if err := policy.Check(actor, order.Status, action); err != nil {
			return err
		}
		if action == policy.ActionCompleteOrder && !actor.IsAdmin() && !order.AllPicked() {
			return pkgerrors.New(pkgerrors.CodeConflict, "all items must be picked before the order can be completed")
		}
		if err := otx.orders().UpdateFields(ctx, order.ID, map[string]interface{}{"status": status}); err != nil {
			return mapStorageError(err, "order")
		}
		return otx.logChange(ctx, order, model.ModStatusChange, "status", order.Status.String(), status.String(), reason)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(s.log.WithField(ctx, "status", status.String()), "order status changed")
	return s.reload(ctx, orderID)
}

// DeleteOrder restores stock for picked lines and removes the order. The
// audit entry recording the deletion outlives the order.
func (s *orderService) DeleteOrder(ctx context.Context, actor model.Actor, orderID uuid.UUID, reason string) (err error) {
	started := time.Now()
	ctx = s.actorContext(ctx, actor)
	defer func() { s.observe(ctx, opDeleteOrder, started, err) }()

	if err = requireActor(actor); err != nil {
		return err
	}

	var number string
	err = s.inOrderTx(ctx, actor, orderID, func(otx *orderTx, order *model.Order) error {
		if err := policy.Check(actor, order.Status, policy.ActionDeleteOrder); err != nil {
			return err
		}
		number = order.OrderNumber
		if err := otx.logChange(ctx, order, model.ModDeleteOrder, "order",
			fmt.Sprintf("Order %s with %d items", order.OrderNumber, len(order.Items)), "DELETED", reason); err != nil {
			return err
		}
		for _, item := range order.Items {
			if !item.IsPicked() {
				continue
			}
			if err := otx.restore(ctx, item.SKU, item.QuantityRequired, model.MovementReversalOrderDelete, order.OrderNumber); err != nil {
				return err
			}
		}
		if err := otx.orders().Delete(ctx, order.ID); err != nil {
			return mapStorageError(err, "order")
		}
		otx.deleted = true
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info(s.log.WithOrderNumber(ctx, number), "order deleted")
	return nil
}

func (s *orderService) GetOrder(ctx context.Context, actor model.Actor, orderID uuid.UUID) (*model.Order, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	order, err := s.reload(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := policy.Check(actor, order.Status, policy.ActionViewOrder); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, actor model.Actor, filter OrderListFilter) ([]model.Order, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	repoFilter := repository.OrderFilter{Limit: filter.Limit, Skip: filter.Skip}
	if filter.Status != "" {
		status, err := model.ParseOrderStatus(filter.Status)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
		}
		repoFilter.Status = status
	}
	if repoFilter.Limit <= 0 {
		repoFilter.Limit = defaultOrderLimit
	}
	if repoFilter.Limit > maxOrderLimit {
		repoFilter.Limit = maxOrderLimit
	}
	if repoFilter.Skip < 0 {
		repoFilter.Skip = 0
	}

	orders, err := s.repos.Orders.List(ctx, repoFilter)
	if err != nil {
		return nil, mapStorageError(err, "orders")
	}
	return orders, nil
}

// NextOrderNumber previews the number the next order would receive without
// consuming the sequence.
func (s *orderService) NextOrderNumber(ctx context.Context) (string, error) {
	current, err := s.repos.Sequences.Peek(ctx, model.OrderNumberSequence)
	if err != nil {
		return "", mapStorageError(err, "order sequence")
	}
	for n := current + 1; n <= current+maxNumberAttempts; n++ {
		number := model.FormatOrderNumber(n)
		taken, err := s.numberTaken(ctx, nil, number)
		if err != nil {
			return "", err
		}
		if !taken {
			return number, nil
		}
	}
	return "", pkgerrors.New(pkgerrors.CodeConflict, "no free order number available")
}

// History returns the order's modification log, oldest first. It stays
// readable after the order is deleted.
func (s *orderService) History(ctx context.Context, actor model.Actor, orderID uuid.UUID) ([]model.OrderModification, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	entries, err := s.repos.Audit.ListByOrderID(ctx, orderID)
	if err != nil {
		return nil, mapStorageError(err, "order history")
	}
	return entries, nil
}

func (s *orderService) HistoryByNumber(ctx context.Context, actor model.Actor, orderNumber string) ([]model.OrderModification, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	number := normalizeOrderNumber(orderNumber)
	if number == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order number is required")
	}
	entries, err := s.repos.Audit.ListByOrderNumber(ctx, number)
	if err != nil {
		return nil, mapStorageError(err, "order history")
	}
	return entries, nil
}
