package handlers

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shekar007/greenscore2/config"
	"github.com/shekar007/greenscore2/models"
)

// AllocationService resolves pending order requests into final statuses and
// orders. A batch is one transaction: requests are grouped per material,
// each material row is locked for update, and quantity is handed out in
// first-come-first-served order. Any write failure rolls the whole batch
// back, across all materials.
type AllocationService struct {
	db       *gorm.DB
	notifier *NotificationService
}

func NewAllocationService(db *gorm.DB) *AllocationService {
	return &AllocationService{db: db, notifier: NewNotificationService(db)}
}

// DefaultAllocationService uses the shared connection.
func DefaultAllocationService() *AllocationService {
	return NewAllocationService(config.DB)
}

// RequestOutcome is the per-request result of a batch approval.
type RequestOutcome struct {
	RequestID    uuid.UUID            `json:"requestId"`
	OrderID      *uuid.UUID           `json:"orderId,omitempty"`
	Status       models.RequestStatus `json:"status"`
	FulfilledQty int                  `json:"fulfilledQty"`
	RequestedQty int                  `json:"requestedQty"`
	IsPartial    bool                 `json:"isPartial"`
	Reason       string               `json:"reason,omitempty"`
}

// ApprovalResult aggregates a batch approval.
type ApprovalResult struct {
	Results        []RequestOutcome `json:"results"`
	TotalProcessed int              `json:"totalProcessed"`
	TotalApproved  int              `json:"totalApproved"`
}

const outOfStockNote = "Out of stock - no quantity available"

// allocationStep is one planned outcome inside a material group.
type allocationStep struct {
	request   models.OrderRequest
	status    models.RequestStatus
	fulfilled int
}

// sortFCFS orders requests by creation time, earliest first. Ties break on
// id so the walk is deterministic.
func sortFCFS(requests []models.OrderRequest) {
	sort.SliceStable(requests, func(i, j int) bool {
		if requests[i].CreatedAt.Equal(requests[j].CreatedAt) {
			return requests[i].ID.String() < requests[j].ID.String()
		}
		return requests[i].CreatedAt.Before(requests[j].CreatedAt)
	})
}

// planAllocation walks FCFS-sorted requests against the available quantity
// and decides each outcome. Pure: no I/O, no clock. Returns the steps and
// the quantity left over.
func planAllocation(available int, requests []models.OrderRequest) ([]allocationStep, int) {
	steps := make([]allocationStep, 0, len(requests))
	remaining := available

	for _, req := range requests {
		fulfilled := req.Quantity
		if fulfilled > remaining {
			fulfilled = remaining
		}

		if fulfilled == 0 {
			steps = append(steps, allocationStep{request: req, status: models.RequestDeclined})
			continue
		}

		status := models.RequestApproved
		if fulfilled < req.Quantity {
			status = models.RequestPartiallyApproved
		}
		steps = append(steps, allocationStep{request: req, status: status, fulfilled: fulfilled})
		remaining -= fulfilled
	}

	return steps, remaining
}

// queuedNotification is emitted only after the batch commits, so a
// notification failure can never abort (or be rolled back with) the sale.
type queuedNotification struct {
	userID    uuid.UUID
	title     string
	message   string
	kind      models.NotificationType
	relatedID uuid.UUID
}

// ApproveRequests processes one or more pending requests as a single atomic
// batch. Ids that resolve to no pending request are ignored; if none
// resolve, ErrRequestNotFound is returned and nothing is written.
func (s *AllocationService) ApproveRequests(requestIDs []uuid.UUID, sellerNotes string) (*ApprovalResult, error) {
	result := &ApprovalResult{Results: []RequestOutcome{}}
	var queued []queuedNotification

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var candidates []models.OrderRequest
		if err := tx.Where("id IN ? AND status = ?", requestIDs, models.RequestPending).
			Find(&candidates).Error; err != nil {
			return fmt.Errorf("failed to load order requests: %w", err)
		}
		if len(candidates) == 0 {
			return ErrRequestNotFound
		}

		sortFCFS(candidates)

		// Group the candidate ids by material, preserving first-appearance
		// order across groups.
		groups := make(map[uuid.UUID][]uuid.UUID)
		var materialIDs []uuid.UUID
		for _, req := range candidates {
			if _, seen := groups[req.MaterialID]; !seen {
				materialIDs = append(materialIDs, req.MaterialID)
			}
			groups[req.MaterialID] = append(groups[req.MaterialID], req.ID)
		}

		processedAny := false
		now := time.Now()

		for _, materialID := range materialIDs {
			var material models.Material
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&material, "id = ?", materialID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					// Requests against a deleted material drop out of the
					// batch instead of failing the others.
					continue
				}
				return fmt.Errorf("failed to lock material %s: %w", materialID, err)
			}

			// The candidate read ran before the material lock, so an
			// overlapping batch (or a decline) may have resolved some of
			// those rows in between. Re-load the group under FOR UPDATE:
			// rows that are no longer pending drop out, and the ones we
			// plan for stay pending until this transaction commits.
			var requests []models.OrderRequest
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("id IN ? AND status = ?", groups[materialID], models.RequestPending).
				Find(&requests).Error; err != nil {
				return fmt.Errorf("failed to lock order requests: %w", err)
			}
			if len(requests) == 0 {
				continue
			}
			processedAny = true
			sortFCFS(requests)

			steps, remaining := planAllocation(material.Quantity, requests)

			for _, step := range steps {
				result.TotalProcessed++
				outcome, notif, err := s.applyStep(tx, step, &material, sellerNotes, now)
				if err != nil {
					return err
				}
				if notif != nil {
					queued = append(queued, *notif)
					result.TotalApproved++
				}
				result.Results = append(result.Results, outcome)
			}

			if remaining != material.Quantity {
				updates := map[string]interface{}{"quantity": remaining}
				if remaining == 0 {
					updates["listing_type"] = models.ListingSold
				}
				if err := tx.Model(&models.Material{}).Where("id = ?", material.ID).
					Updates(updates).Error; err != nil {
					return fmt.Errorf("failed to update material quantity: %w", err)
				}
			}
		}

		if !processedAny {
			return ErrRequestNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, n := range queued {
		s.notifier.Notify(n.userID, n.title, n.message, n.kind, n.relatedID, nil)
	}

	log.Printf("✅ Bulk approval: %d/%d requests approved", result.TotalApproved, result.TotalProcessed)
	return result, nil
}

// applyStep writes one planned outcome: the request transition and, for
// non-declined requests, the order plus its audit row.
func (s *AllocationService) applyStep(tx *gorm.DB, step allocationStep, material *models.Material, sellerNotes string, now time.Time) (RequestOutcome, *queuedNotification, error) {
	req := step.request

	if step.status == models.RequestDeclined {
		if err := tx.Model(&models.OrderRequest{}).Where("id = ?", req.ID).
			Updates(map[string]interface{}{
				"status":       models.RequestDeclined,
				"seller_notes": outOfStockNote,
			}).Error; err != nil {
			return RequestOutcome{}, nil, fmt.Errorf("failed to decline request %s: %w", req.ID, err)
		}
		return RequestOutcome{
			RequestID:    req.ID,
			Status:       models.RequestDeclined,
			RequestedQty: req.Quantity,
			Reason:       "Out of stock",
		}, nil, nil
	}

	isPartial := step.status == models.RequestPartiallyApproved
	notes := sellerNotes
	if isPartial {
		notes = fmt.Sprintf("%s [Partial: %d/%d units fulfilled]", sellerNotes, step.fulfilled, req.Quantity)
	}

	fulfilled := step.fulfilled
	if err := tx.Model(&models.OrderRequest{}).Where("id = ?", req.ID).
		Updates(map[string]interface{}{
			"status":             step.status,
			"approved_at":        now,
			"seller_notes":       notes,
			"fulfilled_quantity": fulfilled,
		}).Error; err != nil {
		return RequestOutcome{}, nil, fmt.Errorf("failed to update request %s: %w", req.ID, err)
	}

	adjustedTotal := float64(fulfilled) / float64(req.Quantity) * req.TotalAmount
	order := models.Order{
		ID:              uuid.New(),
		OrderRequestID:  req.ID,
		BuyerID:         req.BuyerID,
		SellerID:        req.SellerID,
		MaterialID:      req.MaterialID,
		Quantity:        fulfilled,
		UnitPrice:       req.UnitPrice,
		TotalAmount:     adjustedTotal,
		PlatformFee:     adjustedTotal * 0.05,
		ShippingAddress: req.DeliveryAddress,
		DeliveryNotes:   req.DeliveryNotes,
	}
	if err := tx.Create(&order).Error; err != nil {
		return RequestOutcome{}, nil, fmt.Errorf("failed to create order for request %s: %w", req.ID, err)
	}

	history := models.TransactionHistory{
		SellerID:        req.SellerID,
		MaterialID:      &req.MaterialID,
		ListingID:       material.ListingID,
		TransactionType: models.TransactionSale,
		BuyerID:         &req.BuyerID,
		OrderID:         &order.ID,
		Quantity:        fulfilled,
		UnitPrice:       req.UnitPrice,
		TotalAmount:     adjustedTotal,
		MaterialName:    material.Material,
		BuyerCompany:    req.BuyerCompany,
		BuyerContact:    req.BuyerContactPerson,
		DeliveryAddress: req.DeliveryAddress,
		Notes:           notes,
	}
	if err := tx.Create(&history).Error; err != nil {
		return RequestOutcome{}, nil, fmt.Errorf("failed to record sale history for order %s: %w", order.ID, err)
	}

	title := "Order Approved!"
	message := fmt.Sprintf("Your order for %d units of %s has been approved. Order ID: %s",
		fulfilled, material.Material, order.ID)
	if isPartial {
		title = "Order Partially Fulfilled!"
		message = fmt.Sprintf("Your order for %s has been partially fulfilled. %d/%d units approved. Order ID: %s",
			material.Material, fulfilled, req.Quantity, order.ID)
	}

	orderID := order.ID
	return RequestOutcome{
			RequestID:    req.ID,
			OrderID:      &orderID,
			Status:       step.status,
			FulfilledQty: fulfilled,
			RequestedQty: req.Quantity,
			IsPartial:    isPartial,
		}, &queuedNotification{
			userID:    req.BuyerID,
			title:     title,
			message:   message,
			kind:      models.NotificationOrderApproved,
			relatedID: order.ID,
		}, nil
}

// ApproveRequest approves a single request. Delegates to the batch path so
// single and bulk approval share one set of invariants.
func (s *AllocationService) ApproveRequest(requestID uuid.UUID, sellerNotes string) (*ApprovalResult, error) {
	return s.ApproveRequests([]uuid.UUID{requestID}, sellerNotes)
}

// DeclineRequest is a status-only transition: no inventory effect, no
// order. Valid only from pending.
func (s *AllocationService) DeclineRequest(requestID uuid.UUID, sellerNotes string) error {
	var request models.OrderRequest

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// FOR UPDATE so the pending check cannot race a batch approval
		// holding (or about to take) the same request row.
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&request, "id = ?", requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRequestNotFound
			}
			return fmt.Errorf("failed to load order request: %w", err)
		}
		if request.Status != models.RequestPending {
			return ErrRequestNotPending
		}

		if err := tx.Model(&models.OrderRequest{}).Where("id = ?", requestID).
			Updates(map[string]interface{}{
				"status":       models.RequestDeclined,
				"seller_notes": sellerNotes,
			}).Error; err != nil {
			return fmt.Errorf("failed to decline request %s: %w", requestID, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	reason := sellerNotes
	if reason == "" {
		reason = "No reason provided"
	}
	s.notifier.Notify(request.BuyerID, "Order Request Declined",
		fmt.Sprintf("Your order request for %d units has been declined by the seller. Reason: %s",
			request.Quantity, reason),
		models.NotificationOrderDeclined, requestID, nil)
	return nil
}
