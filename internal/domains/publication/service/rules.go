package service

import (
	"strings"

	"editorial-backend/internal/domains/publication/model"
)

// =====================================================
// TRANSITION RULES
// =====================================================

// TransitionRule checks the semantic precondition for entering one
// target status. Structural reachability is not its concern; the
// state machine owns that independently.
type TransitionRule func(rec *model.Publication, req model.ChangeStatusRequest) error

// transitionRules maps each target status to its precondition. DRAFT
// has no rule: returning to draft is governed by structural legality
// alone.
var transitionRules = map[model.Status]TransitionRule{
	model.StatusInReview:  ruleEnterReview,
	model.StatusApproved:  ruleApprove,
	model.StatusPublished: rulePublish,
	model.StatusRejected:  ruleReject,
}

// ruleOrder fixes the evaluation sequence. Each rule no-ops for other
// targets, so at most one performs a check per call; the order only
// matters if a future rule overlaps targets.
var ruleOrder = []model.Status{
	model.StatusInReview,
	model.StatusApproved,
	model.StatusPublished,
	model.StatusRejected,
}

// validateTransition runs every rule in fixed order against the same
// (record, request) pair and fails on the first violation. It never
// consults the transition graph: a request may pass every rule here
// and still be structurally illegal.
func validateTransition(rec *model.Publication, target model.Status, req model.ChangeStatusRequest) error {
	for _, status := range ruleOrder {
		if status != target {
			continue
		}
		if err := transitionRules[status](rec, req); err != nil {
			return err
		}
	}
	return nil
}

// ruleEnterReview: review can only start from DRAFT or REJECTED, and
// the record must have real content to review.
func ruleEnterReview(rec *model.Publication, _ model.ChangeStatusRequest) error {
	if rec.Status != model.StatusDraft && rec.Status != model.StatusRejected {
		return model.NewTransitionRuleError("review can only be requested from DRAFT or REJECTED, current status is " + rec.Status.String())
	}
	if !rec.HasContent() {
		return model.NewTransitionRuleError("publication needs a non-empty title and body before review")
	}
	return nil
}

// ruleApprove: approval requires an active review and reviewer notes.
func ruleApprove(rec *model.Publication, req model.ChangeStatusRequest) error {
	if rec.Status != model.StatusInReview {
		return model.NewTransitionRuleError("approval requires current status IN_REVIEW, current status is " + rec.Status.String())
	}
	if strings.TrimSpace(req.ReviewNotes) == "" {
		return model.NewTransitionRuleError("approval requires non-empty review notes")
	}
	return nil
}

// rulePublish checks content only. The APPROVED-before-PUBLISHED
// requirement is the transition graph's job, so a request from a
// wrong status surfaces as an illegal transition, not a rule failure.
func rulePublish(rec *model.Publication, _ model.ChangeStatusRequest) error {
	if !rec.HasContent() {
		return model.NewTransitionRuleError("publication needs a non-empty title and body to be published")
	}
	return nil
}

// ruleReject: anything except an already published record can be
// rejected, with reviewer notes explaining why.
func ruleReject(rec *model.Publication, req model.ChangeStatusRequest) error {
	if rec.Status == model.StatusPublished {
		return model.NewTransitionRuleError("published publications cannot be rejected")
	}
	if strings.TrimSpace(req.ReviewNotes) == "" {
		return model.NewTransitionRuleError("rejection requires non-empty review notes")
	}
	return nil
}
