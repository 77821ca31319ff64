package service

import (
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"schooladmin_backend/internals/configs"
	"schooladmin_backend/internals/features/finance/payments/dto"
)

// SMTPMailer sends plain-text receipts through an SMTP relay.
type SMTPMailer struct {
	cfg configs.SMTPConfig
}

// NewSMTPMailer returns nil when SMTP is not configured; the service then skips receipts.
func NewSMTPMailer(cfg configs.SMTPConfig) ReceiptSender {
	if !cfg.Enabled() {
		return nil
	}
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) SendReceipt(to string, r dto.PaymentReceipt) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.Sender)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("Fee receipt %s", r.ReceiptNumber))
	msg.SetBody("text/plain", RenderReceiptText(r))

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.User, m.cfg.Password)
	return d.DialAndSend(msg)
}

func RenderReceiptText(r dto.PaymentReceipt) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Receipt: %s\n", r.ReceiptNumber)
	fmt.Fprintf(&b, "Transaction: %s\n", r.TransactionCode)
	fmt.Fprintf(&b, "Student: %s (%s)\n", r.StudentName, r.ScholarNumber)
	fmt.Fprintf(&b, "Class: %s-%s, %s\n", r.ClassName, r.Section, r.AcademicYear)
	if r.PaidAt != nil {
		fmt.Fprintf(&b, "Paid at: %s\n", r.PaidAt.Format("2006-01-02 15:04 MST"))
	}
	fmt.Fprintf(&b, "Amount: %s %s via %s (%s)\n\n", r.Currency, r.Amount.StringFixed(2), r.Method, r.Gateway)

	for _, l := range r.Lines {
		mark := " "
		if l.IsPaid {
			mark = "x"
		}
		fmt.Fprintf(&b, "[%s] %-30s %12s / %s\n", mark, l.Name, l.PaidAmount.StringFixed(2), l.Amount.Sub(l.Discount).StringFixed(2))
	}
	fmt.Fprintf(&b, "\nTotal: %s\n", r.TotalAmount.StringFixed(2))
	if r.LateFee.IsPositive() {
		fmt.Fprintf(&b, "Late fee: %s\n", r.LateFee.StringFixed(2))
	}
	fmt.Fprintf(&b, "Paid: %s\n", r.PaidAmount.StringFixed(2))
	fmt.Fprintf(&b, "Pending: %s\n", r.PendingAmount.StringFixed(2))
	return b.String()
}
