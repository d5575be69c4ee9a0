package application

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogmemory "github.com/streetsource/streetsource-api/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/streetsource/streetsource-api/internal/domains/catalog/application"
	catalogdomain "github.com/streetsource/streetsource-api/internal/domains/catalog/domain"
	"github.com/streetsource/streetsource-api/internal/domains/verification/adapters/memory"
	"github.com/streetsource/streetsource-api/internal/domains/verification/domain"
	"github.com/streetsource/streetsource-api/internal/domains/verification/ports"
)

type fakeMedia struct {
	stored []string
}

func (f *fakeMedia) Store(_ context.Context, filename string, _ io.Reader) (string, error) {
	url := "https://cdn.local/" + filename
	f.stored = append(f.stored, url)
	return url, nil
}

func newVerificationFixture(t *testing.T) (*Service, *fakeMedia, int64) {
	t.Helper()
	ctx := context.Background()

	catalogRepo := catalogmemory.NewRepository()
	catalogSvc := catalogapp.NewService(catalogRepo)
	_, err := catalogSvc.UpsertProfile(ctx, &catalogdomain.Supplier{
		UserID:           5,
		CompanyName:      "Joshi Traders",
		BusinessAddress:  "Shivaji Market, Pune",
		GSTNumber:        "27AAPFU0939F1ZV",
		PANNumber:        "AAPFU0939F",
		BusinessType:     "wholesaler",
		RegistrationDate: time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
		DeliveryRadius:   catalogdomain.DeliveryRadius{RadiusKm: 3},
	})
	require.NoError(t, err)

	item, err := catalogdomain.NewInventoryItem(5, "Ginger", 30, catalogdomain.UnitKg, 80)
	require.NoError(t, err)
	added, err := catalogSvc.AddItem(ctx, item)
	require.NoError(t, err)

	media := &fakeMedia{}
	svc := NewService(memory.NewRepository(), media, catalogSvc, nil)
	return svc, media, added.ID
}

func submitInput(itemID int64, status domain.Status, rating int) ports.SubmitInput {
	return ports.SubmitInput{
		ItemID:        itemID,
		Status:        status,
		QualityRating: rating,
		Review:        "fresh stock",
		Images:        []ports.Upload{{Filename: "evidence.jpg", Content: strings.NewReader("img")}},
	}
}

func TestSubmit_StoresImagesAndRecord(t *testing.T) {
	svc, media, itemID := newVerificationFixture(t)

	record, err := svc.Submit(context.Background(), submitInput(itemID, domain.StatusVerified, 4))
	require.NoError(t, err)
	assert.NotZero(t, record.ID)
	assert.Equal(t, domain.StatusVerified, record.Status)
	require.Len(t, record.ImageURLs, 1)
	assert.Equal(t, record.ImageURLs, media.stored)
}

func TestSubmit_Validation(t *testing.T) {
	svc, _, itemID := newVerificationFixture(t)
	ctx := context.Background()

	input := submitInput(itemID, domain.StatusVerified, 4)
	input.Images = nil
	_, err := svc.Submit(ctx, input)
	assert.ErrorIs(t, err, domain.ErrNoEvidence)

	_, err = svc.Submit(ctx, submitInput(itemID, domain.Status("flagged"), 4))
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = svc.Submit(ctx, submitInput(itemID, domain.StatusVerified, 6))
	assert.ErrorIs(t, err, domain.ErrInvalidRating)

	_, err = svc.Submit(ctx, submitInput(0, domain.StatusVerified, 4))
	assert.ErrorIs(t, err, domain.ErrMissingFields)
}

func TestSubmit_UnknownItem(t *testing.T) {
	svc, _, _ := newVerificationFixture(t)
	_, err := svc.Submit(context.Background(), submitInput(9999, domain.StatusVerified, 4))
	require.Error(t, err)
}

func TestPendingFeed_FiltersSettledItems(t *testing.T) {
	svc, _, itemID := newVerificationFixture(t)
	ctx := context.Background()

	feed, err := svc.PendingFeed(ctx)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, itemID, feed[0].Item.ID)
	assert.Equal(t, "Joshi Traders", feed[0].SupplierName)
	assert.Nil(t, feed[0].Status)

	_, err = svc.Submit(ctx, submitInput(itemID, domain.StatusPending, 3))
	require.NoError(t, err)

	feed, err = svc.PendingFeed(ctx)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	require.NotNil(t, feed[0].Status)
	assert.Equal(t, domain.StatusPending, *feed[0].Status)

	_, err = svc.Submit(ctx, submitInput(itemID, domain.StatusVerified, 5))
	require.NoError(t, err)

	feed, err = svc.PendingFeed(ctx)
	require.NoError(t, err)
	assert.Empty(t, feed)
}

func TestHistory_IsAdditive(t *testing.T) {
	svc, _, itemID := newVerificationFixture(t)
	ctx := context.Background()

	_, err := svc.Submit(ctx, submitInput(itemID, domain.StatusPending, 3))
	require.NoError(t, err)
	_, err = svc.Submit(ctx, submitInput(itemID, domain.StatusVerified, 5))
	require.NoError(t, err)

	history, err := svc.History(ctx, itemID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.StatusPending, history[0].Status)
	assert.Equal(t, domain.StatusVerified, history[1].Status)
}
