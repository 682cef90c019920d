package types

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type InviteRequest struct {
	UserID string `json:"user_id" validate:"required,uuid4"`
}

type RespondRequest struct {
	Accept bool `json:"accept"`
}

type ApprovalRequest struct {
	CoordinatorID string `json:"coordinator_id" validate:"required,uuid4"`
}

type GuideRequestCreate struct {
	GuideID string `json:"guide_id" validate:"required,uuid4"`
	Message string `json:"message" validate:"required"`
}

// DecisionRequest resolves a pending review. Feedback is required by the
// services when rejecting an abstract.
type DecisionRequest struct {
	Approve  bool   `json:"approve"`
	Feedback string `json:"feedback"`
}
