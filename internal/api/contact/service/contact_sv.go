package contactService

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"portfolio/internal/api/contact"
	"portfolio/internal/entity"
	contextPkg "portfolio/pkg/context"
)

func (s *contactService) Submit(ctx context.Context, req contact.SubmitRequest) (contact.MessageResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return contact.MessageResponse{}, err
	}

	now := time.Now().UTC()
	id, err := s.utils.NewULIDFromTimestamp(now)
	if err != nil {
		return contact.MessageResponse{}, err
	}

	msg := entity.ContactMessage{
		ID:        id,
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Subject:   strings.TrimSpace(req.Subject),
		Message:   strings.TrimSpace(req.Message),
		CreatedAt: now,
	}

	if err := repo.Messages.Create(ctx, msg); err != nil {
		return contact.MessageResponse{}, contact.ErrCreateMessage
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"message_id": msg.ID,
	}).Info("Contact message stored")

	if s.notifyTo != "" && s.mailer != nil && s.mailer.Enabled() {
		go s.notify(requestID, msg)
	}

	return makeMessageResponse(msg), nil
}

func (s *contactService) notify(requestID string, msg entity.ContactMessage) {
	subject := fmt.Sprintf("New contact message: %s", msg.Subject)
	body := fmt.Sprintf("From: %s <%s>\nSubject: %s\n\n%s\n", msg.Name, msg.Email, msg.Subject, msg.Message)

	if err := s.mailer.Send(s.notifyTo, subject, body); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"message_id": msg.ID,
			"error":      err.Error(),
		}).Warn("Failed to send contact notification")
	}
}

func (s *contactService) List(ctx context.Context, req contact.ListRequest) (contact.ListResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return contact.ListResponse{}, err
	}

	all, err := repo.Messages.GetAll(ctx)
	if err != nil {
		return contact.ListResponse{}, err
	}

	filtered := Filter(all, req.Search)
	page, totalPages, start, end := Paginate(len(filtered), req.Page, contact.PageSize)

	res := contact.ListResponse{
		Messages:   make([]contact.MessageResponse, 0, end-start),
		Total:      len(filtered),
		Page:       page,
		TotalPages: totalPages,
		PageSize:   contact.PageSize,
		Stats:      ComputeStats(all, time.Now().UTC()),
	}
	for _, m := range filtered[start:end] {
		res.Messages = append(res.Messages, makeMessageResponse(m))
	}

	return res, nil
}

func (s *contactService) GetByID(ctx context.Context, id string) (contact.MessageResponse, error) {
	repo, err := s.repo.NewClient(false)
	if err != nil {
		return contact.MessageResponse{}, err
	}

	msg, err := repo.Messages.GetByID(ctx, id)
	if err != nil {
		return contact.MessageResponse{}, err
	}

	return makeMessageResponse(msg), nil
}

func (s *contactService) Delete(ctx context.Context, id string) error {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		return err
	}

	if err := repo.Messages.Delete(ctx, id); err != nil {
		if errors.Is(err, contact.ErrMessageNotFound) {
			return err
		}
		return contact.ErrDeleteMessage
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"message_id": id,
	}).Info("Contact message deleted")

	return nil
}

func (s *contactService) Export(ctx context.Context) (string, []byte, error) {
	repo, err := s.repo.NewClient(false)
	if err != nil {
		return "", nil, err
	}

	all, err := repo.Messages.GetAll(ctx)
	if err != nil {
		return "", nil, err
	}

	now := time.Now().UTC()
	return ExportFilename(now), []byte(ExportCSV(all, time.UTC)), nil
}
