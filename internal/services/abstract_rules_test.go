package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/projectflow/engine/internal/models"
	appErr "github.com/projectflow/engine/pkg/errors"
)

const testUploadCap = 10485760

func newAbstractServiceForValidation() AbstractService {
	// Validation runs before any repository access, so empty mocks suffice.
	return NewAbstractService(nil, &mockAbstractRepository{}, &mockGroupRepository{},
		&mockGuideRequestRepository{}, &mockApprovalRepository{}, &mockUserRepository{},
		noopNotifier{}, testUploadCap)
}

func TestSubmitAbstract_UploadValidation(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New()
	svc := newAbstractServiceForValidation()

	pdf := []byte("%PDF-1.4 test")

	cases := []struct {
		name string
		in   SubmitAbstractInput
	}{
		{"missing title", SubmitAbstractInput{Title: "  ", AbstractText: "text", PDFFilename: "a.pdf", PDFData: pdf}},
		{"missing text", SubmitAbstractInput{Title: "Topic", AbstractText: "", PDFFilename: "a.pdf", PDFData: pdf}},
		{"missing file", SubmitAbstractInput{Title: "Topic", AbstractText: "text", PDFFilename: "a.pdf"}},
		{"wrong extension", SubmitAbstractInput{Title: "Topic", AbstractText: "text", PDFFilename: "a.docx", PDFData: pdf}},
		{"no extension", SubmitAbstractInput{Title: "Topic", AbstractText: "text", PDFFilename: "abstract", PDFData: pdf}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Submit(ctx, actorID, tc.in)
			require.Error(t, err)
			require.True(t, appErr.IsCode(err, appErr.CodeInvalid), "got code %s", appErr.CodeOf(err))
		})
	}
}

func TestSubmitAbstract_SizeCap(t *testing.T) {
	ctx := context.Background()
	svc := newAbstractServiceForValidation()

	oversized := bytes.Repeat([]byte("a"), testUploadCap+1)
	_, err := svc.Submit(ctx, uuid.New(), SubmitAbstractInput{
		Title:        "Topic",
		AbstractText: "text",
		PDFFilename:  "big.pdf",
		PDFData:      oversized,
	})
	require.Error(t, err)
	require.True(t, appErr.IsCode(err, appErr.CodeInvalid))
}

func TestSubmitAbstract_ExtensionCaseInsensitive(t *testing.T) {
	// Uppercase .PDF must pass the extension check and fail later on the
	// missing group, not on validation.
	ctx := context.Background()
	actorID := uuid.New()

	groups := &mockGroupRepository{}
	groups.On("GetByLeader", ctx, actorID, &models.Group{}).
		Return(appErr.New(appErr.CodeNotFound, "group not found"), nil)

	svc := NewAbstractService(nil, &mockAbstractRepository{}, groups,
		&mockGuideRequestRepository{}, &mockApprovalRepository{}, &mockUserRepository{},
		noopNotifier{}, testUploadCap)

	_, err := svc.Submit(ctx, actorID, SubmitAbstractInput{
		Title:        "Topic",
		AbstractText: "text",
		PDFFilename:  "ABSTRACT.PDF",
		PDFData:      []byte("%PDF-1.4"),
	})
	require.Error(t, err)
	require.True(t, appErr.IsCode(err, appErr.CodeIneligible))
	groups.AssertExpectations(t)
}

func TestSubmitAbstract_LeaderOnly(t *testing.T) {
	ctx := context.Background()
	in := SubmitAbstractInput{
		Title:        "Topic",
		AbstractText: "text",
		PDFFilename:  "abstract.pdf",
		PDFData:      []byte("%PDF-1.4"),
	}

	t.Run("non-leader cannot submit", func(t *testing.T) {
		memberID := uuid.New()
		groups := &mockGroupRepository{}
		groups.On("GetByLeader", ctx, memberID, &models.Group{}).
			Return(appErr.New(appErr.CodeNotFound, "group not found"), nil)

		svc := NewAbstractService(nil, &mockAbstractRepository{}, groups,
			&mockGuideRequestRepository{}, &mockApprovalRepository{}, &mockUserRepository{},
			noopNotifier{}, testUploadCap)

		_, err := svc.Submit(ctx, memberID, in)
		require.Error(t, err)
		require.True(t, appErr.IsCode(err, appErr.CodeIneligible))
		groups.AssertExpectations(t)
	})

	t.Run("undersized group cannot submit", func(t *testing.T) {
		leaderID := uuid.New()
		groupID := uuid.New()
		groups := &mockGroupRepository{}
		groups.On("GetByLeader", ctx, leaderID, &models.Group{}).
			Return(nil, &models.Group{ID: groupID, LeaderID: leaderID})
		groups.On("CountMembers", ctx, groupID).Return(int64(3), nil)

		abstracts := &mockAbstractRepository{}
		svc := NewAbstractService(nil, abstracts, groups,
			&mockGuideRequestRepository{}, &mockApprovalRepository{}, &mockUserRepository{},
			noopNotifier{}, testUploadCap)

		_, err := svc.Submit(ctx, leaderID, in)
		require.Error(t, err)
		require.True(t, appErr.IsCode(err, appErr.CodeIneligible))
		abstracts.AssertNotCalled(t, "Create")
	})
}

func TestGuideReview_FeedbackRequiredOnReject(t *testing.T) {
	svc := newAbstractServiceForValidation()

	_, err := svc.GuideReview(context.Background(), uuid.New(), uuid.New(), false, "   ")
	require.Error(t, err)
	require.True(t, appErr.IsCode(err, appErr.CodeInvalid))
}
