package status

import "farmmarket/console/internal/models"

type StepState string

const (
	StepCompleted StepState = "completed"
	StepCurrent   StepState = "current"
	StepPending   StepState = "pending"
	StepFailed    StepState = "failed"
)

var stepLabels = []string{"Order Shipped", "In Transit", "Delivered"}

// failedIndex marks statuses that have no place on the stepper.
const failedIndex = -1

type Step struct {
	Label string    `json:"label"`
	State StepState `json:"state"`
}

type Timeline struct {
	Index  int    `json:"index"`
	Steps  []Step `json:"steps"`
	Failed bool   `json:"failed"`
}

func StepIndex(s models.DeliveryStatus) int {
	switch s {
	case models.DeliveryPending:
		return 0
	case models.DeliveryInTransit:
		return 1
	case models.DeliveryDelivered:
		return 2
	default:
		return failedIndex
	}
}

// DeliveryTimeline builds the three-step tracker for a delivery. FAILED marks
// every step failed and sets Failed so the caller shows the failure view.
// Unknown statuses leave every step pending.
func DeliveryTimeline(s models.DeliveryStatus) Timeline {
	idx := StepIndex(s)
	failed := s == models.DeliveryFailed
	t := Timeline{Index: idx, Failed: failed, Steps: make([]Step, len(stepLabels))}
	for i, label := range stepLabels {
		state := StepPending
		switch {
		case failed:
			state = StepFailed
		case idx == failedIndex:
		case i < idx:
			state = StepCompleted
		case i == idx:
			state = StepCurrent
		}
		t.Steps[i] = Step{Label: label, State: state}
	}
	return t
}

func DeliveryTerminal(s models.DeliveryStatus) bool {
	return s == models.DeliveryDelivered || s == models.DeliveryFailed
}

// DeliveryStatusOptions lists every status while the delivery is open and
// nil once it is delivered or failed.
func DeliveryStatusOptions(s models.DeliveryStatus) []models.DeliveryStatus {
	if DeliveryTerminal(s) {
		return nil
	}
	out := make([]models.DeliveryStatus, len(models.DeliveryStatuses))
	copy(out, models.DeliveryStatuses)
	return out
}

type DeliveryCounts struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	InTransit int `json:"inTransit"`
	Delivered int `json:"delivered"`
	Failed    int `json:"failed"`
}

func DeliveryStats(deliveries []models.Delivery) DeliveryCounts {
	c := DeliveryCounts{Total: len(deliveries)}
	for _, d := range deliveries {
		switch d.DeliveryStatus {
		case models.DeliveryPending:
			c.Pending++
		case models.DeliveryInTransit:
			c.InTransit++
		case models.DeliveryDelivered:
			c.Delivered++
		case models.DeliveryFailed:
			c.Failed++
		}
	}
	return c
}
