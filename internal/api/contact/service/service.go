package contactService

import (
	"context"

	"github.com/sirupsen/logrus"

	"portfolio/internal/api/contact"
	contactRepository "portfolio/internal/api/contact/repository"
	"portfolio/pkg/smtp"
	"portfolio/pkg/utils"
)

type IContactService interface {
	Submit(ctx context.Context, req contact.SubmitRequest) (contact.MessageResponse, error)
	List(ctx context.Context, req contact.ListRequest) (contact.ListResponse, error)
	GetByID(ctx context.Context, id string) (contact.MessageResponse, error)
	Delete(ctx context.Context, id string) error
	Export(ctx context.Context) (filename string, body []byte, err error)
}

type contactService struct {
	log      *logrus.Logger
	repo     contactRepository.Repository
	mailer   smtp.ItfSmtp
	notifyTo string
	utils    utils.IUtils
}

// New wires the inbox. notifyTo may be empty, which turns owner notifications off.
func New(
	log *logrus.Logger,
	repo contactRepository.Repository,
	mailer smtp.ItfSmtp,
	notifyTo string,
	utils utils.IUtils,
) IContactService {
	return &contactService{
		log:      log,
		repo:     repo,
		mailer:   mailer,
		notifyTo: notifyTo,
		utils:    utils,
	}
}
