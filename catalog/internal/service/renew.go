package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/Astemirdum/local-library/catalog/internal/errs"
	"github.com/Astemirdum/local-library/catalog/internal/model"
	"github.com/Astemirdum/local-library/pkg/kafka"
)

const (
	renewalDateField = "renewal_date"

	msgRenewalRequired = "This field is required."
	msgRenewalInPast   = "Invalid date - renewal in past"
	msgRenewalTooFar   = "Invalid date - renewal more than 4 weeks ahead"
)

// RenewForm returns the copy together with the default proposal of today + 3 weeks.
func (s *Service) RenewForm(ctx context.Context, id uuid.UUID) (model.RenewForm, error) {
	inst, err := s.repo.GetBookInstance(ctx, id)
	if err != nil {
		return model.RenewForm{}, err
	}
	inst.Annotate(s.today())
	return model.RenewForm{
		Instance:            inst,
		ProposedRenewalDate: s.today().AddDays(renewalProposalDays),
	}, nil
}

// RenewBook sets due_back of the copy to the requested date when it lies within
// [today, today + 4 weeks]. On a validation failure the returned form carries the
// field errors and nothing is written.
func (s *Service) RenewBook(ctx context.Context, id uuid.UUID, req model.RenewRequest) (model.RenewForm, error) {
	form, err := s.RenewForm(ctx, id)
	if err != nil {
		return model.RenewForm{}, err
	}
	date, verr := s.validateRenewal(req.RenewalDate)
	if verr != nil {
		form.Errors = verr.Fields
		return form, verr
	}
	if err := s.repo.UpdateDueBack(ctx, id, date); err != nil {
		return model.RenewForm{}, err
	}

	form.Instance.DueBack = &date
	form.Instance.Annotate(s.today())
	s.publish(ctx, kafka.EventCatalog{
		EventType:  kafka.EventInstanceRenewed,
		UserName:   userName(ctx),
		InstanceID: id.String(),
		DueBack:    date.String(),
	})
	return form, nil
}

func (s *Service) validateRenewal(d *model.Date) (model.Date, *errs.ValidationError) {
	if d == nil || d.IsZero() {
		return model.Date{}, errs.NewValidationError(renewalDateField, msgRenewalRequired)
	}
	today := s.today()
	date := model.NewDate(d.Time)
	if date.Before(today.Time) {
		return model.Date{}, errs.NewValidationError(renewalDateField, msgRenewalInPast)
	}
	if date.After(today.AddDays(renewalMaxDays).Time) {
		return model.Date{}, errs.NewValidationError(renewalDateField, msgRenewalTooFar)
	}
	return date, nil
}
