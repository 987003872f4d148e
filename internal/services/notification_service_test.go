package services

import (
	"context"
	"errors"
	"testing"

	"fabric-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendBillFormatsMessage(t *testing.T) {
	f := newFixture()

	id, err := f.notifySvc.SendBill(context.Background(), &models.SendBillRequest{
		Number:    "+91 98765 43210",
		FileURL:   "https://x/bill.pdf",
		PartyName: "Acme",
		JobID:     "FAB1",
	})
	require.NoError(t, err)
	assert.Equal(t, "SM1", id)

	msgs := f.sender.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, sentMessage{to: "+919876543210", body: "Hello Acme, here is your bill for job FAB1.", mediaURL: "https://x/bill.pdf"}, msgs[0])
}

func TestSendBillErrors(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.notifySvc.SendBill(ctx, &models.SendBillRequest{Number: "9876543210", PartyName: "Acme", JobID: "FAB1"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.notifySvc.SendBill(ctx, &models.SendBillRequest{Number: "123", FileURL: "u", PartyName: "Acme", JobID: "FAB1"})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, f.sender.messages())

	f.sender.err = errors.New("rate limited")
	_, err = f.notifySvc.SendBill(ctx, &models.SendBillRequest{Number: "9876543210", FileURL: "u", PartyName: "Acme", JobID: "FAB1"})
	assert.ErrorIs(t, err, ErrDispatch)
}

func TestResendForJob(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	job := f.createJob(ctx, "Acme", 1, 1)

	_, err := f.notifySvc.ResendForJob(ctx, "FAB0")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.notifySvc.ResendForJob(ctx, job.JobID)
	assert.ErrorIs(t, err, ErrNotFound)

	handle, err := f.invoiceSvc.Generate(ctx, job)
	require.NoError(t, err)

	_, err = f.notifySvc.ResendForJob(ctx, job.JobID)
	require.NoError(t, err)
	msgs := f.sender.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, handle.URL, msgs[0].mediaURL)
}
