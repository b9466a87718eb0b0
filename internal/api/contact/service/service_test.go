package contactService

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/internal/api/contact"
	contactRepository "portfolio/internal/api/contact/repository"
	"portfolio/internal/testsupport"
	"portfolio/pkg/utils"
)

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	sent chan sentMail
	err  error
}

func (m *fakeMailer) Enabled() bool { return true }

func (m *fakeMailer) Send(to, subject, body string) error {
	m.sent <- sentMail{to: to, subject: subject, body: body}
	return m.err
}

func newService(t *testing.T, mailer *fakeMailer, notifyTo string) IContactService {
	t.Helper()

	db := testsupport.NewDB(t)
	log := testsupport.Logger()
	return New(log, contactRepository.New(db, log), mailer, notifyTo, utils.New())
}

func submit(t *testing.T, svc IContactService, name, subject string) contact.MessageResponse {
	t.Helper()

	res, err := svc.Submit(context.Background(), contact.SubmitRequest{
		Name:    name,
		Email:   strings.ToLower(strings.TrimSpace(name)) + "@example.com",
		Subject: subject,
		Message: "message from " + name,
	})
	require.NoError(t, err)
	return res
}

func TestSubmitNotifiesOwner(t *testing.T) {
	mailer := &fakeMailer{sent: make(chan sentMail, 1)}
	svc := newService(t, mailer, "owner@example.com")

	res := submit(t, svc, "  Alice ", "Hello")
	assert.Equal(t, "Alice", res.Name)
	assert.NotEmpty(t, res.ID)

	select {
	case mail := <-mailer.sent:
		assert.Equal(t, "owner@example.com", mail.to)
		assert.Contains(t, mail.subject, "Hello")
		assert.Contains(t, mail.body, "alice@example.com")
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not sent")
	}
}

func TestSubmitWithoutRecipientSkipsMail(t *testing.T) {
	mailer := &fakeMailer{sent: make(chan sentMail, 1)}
	svc := newService(t, mailer, "")

	submit(t, svc, "Bob", "Hi")

	select {
	case <-mailer.sent:
		t.Fatal("no recipient configured, nothing should be sent")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSubmitSucceedsWhenMailFails(t *testing.T) {
	mailer := &fakeMailer{sent: make(chan sentMail, 1), err: fmt.Errorf("smtp down")}
	svc := newService(t, mailer, "owner@example.com")

	submit(t, svc, "Carol", "Hi")
	<-mailer.sent

	list, err := svc.List(context.Background(), contact.ListRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)
}

func TestListPagesAndSearch(t *testing.T) {
	svc := newService(t, &fakeMailer{sent: make(chan sentMail, 100)}, "")
	ctx := context.Background()

	for i := 0; i < 23; i++ {
		subject := "Project"
		if i%5 == 0 {
			subject = "general"
		}
		submit(t, svc, fmt.Sprintf("Sender%02d", i), subject)
	}

	res, err := svc.List(ctx, contact.ListRequest{Page: 1})
	require.NoError(t, err)
	assert.Equal(t, 23, res.Total)
	assert.Equal(t, 3, res.TotalPages)
	assert.Equal(t, contact.PageSize, res.PageSize)
	require.Len(t, res.Messages, 10)
	assert.Equal(t, "Sender22", res.Messages[0].Name, "newest first")
	assert.Equal(t, 23, res.Stats.Total)
	assert.Equal(t, 23, res.Stats.ThisMonth)
	assert.Equal(t, 23, res.Stats.UniqueSenders)

	res, err = svc.List(ctx, contact.ListRequest{Page: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Page)
	assert.Len(t, res.Messages, 3)

	res, err = svc.List(ctx, contact.ListRequest{Search: "GENERAL", Page: 3})
	require.NoError(t, err)
	assert.Equal(t, 5, res.Total)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, 1, res.TotalPages)
	for _, m := range res.Messages {
		assert.Equal(t, "general", m.Subject)
	}
	assert.Equal(t, 23, res.Stats.Total, "stats cover the unfiltered inbox")

	res, err = svc.List(ctx, contact.ListRequest{Search: "no such text"})
	require.NoError(t, err)
	assert.Zero(t, res.Total)
	assert.Equal(t, 1, res.Page)
	assert.NotNil(t, res.Messages)
}

func TestGetAndDelete(t *testing.T) {
	svc := newService(t, &fakeMailer{sent: make(chan sentMail, 10)}, "")
	ctx := context.Background()

	msg := submit(t, svc, "Dana", "Hi")

	got, err := svc.GetByID(ctx, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, msg.Message, got.Message)

	require.NoError(t, svc.Delete(ctx, msg.ID))
	assert.ErrorIs(t, svc.Delete(ctx, msg.ID), contact.ErrMessageNotFound)

	_, err = svc.GetByID(ctx, msg.ID)
	assert.ErrorIs(t, err, contact.ErrMessageNotFound)
}

func TestExport(t *testing.T) {
	svc := newService(t, &fakeMailer{sent: make(chan sentMail, 10)}, "")
	ctx := context.Background()

	_, err := svc.Submit(ctx, contact.SubmitRequest{
		Name:    "Eve",
		Email:   "eve@example.com",
		Subject: "Quote",
		Message: `He said "hi"`,
	})
	require.NoError(t, err)

	name, body, err := svc.Export(ctx)
	require.NoError(t, err)
	assert.Regexp(t, `^contact-messages-\d{4}-\d{2}-\d{2}\.csv$`, name)

	lines := strings.Split(string(body), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Name,Email,Subject,Message,Date", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], `"Eve","eve@example.com","Quote","He said ""hi""","`))
}
