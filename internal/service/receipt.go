package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"taxiweb/internal/domain"
	"taxiweb/internal/session"
)

// Receipt is a rendered booking receipt.
type Receipt struct {
	Filename string
	PDF      []byte
}

// ReceiptService renders booking receipts.
type ReceiptService struct {
	bookings     *BookingsService
	merchantName string
	now          func() time.Time
}

// NewReceiptService creates a new ReceiptService.
func NewReceiptService(bookings *BookingsService, merchantName string) *ReceiptService {
	return &ReceiptService{
		bookings:     bookings,
		merchantName: merchantName,
		now:          time.Now,
	}
}

// GenerateReceipt fetches a booking of the signed-in user and renders it.
func (s *ReceiptService) GenerateReceipt(ctx context.Context, sess *session.Session, bookingID string) (*Receipt, error) {
	booking, err := s.bookings.GetByID(ctx, sess, bookingID)
	if err != nil {
		return nil, err
	}
	return s.Render(booking, sess.User())
}

// Render lays out a booking as a one-page PDF.
func (s *ReceiptService) Render(booking *domain.Booking, customer *domain.User) (*Receipt, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Booking Receipt", false)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, tr(s.merchantName))
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Booking receipt")
	pdf.Ln(12)

	line := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(50, 7, label, "", 0, "", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 7, tr(orDash(value)), "", "", false)
	}

	line("Reference", booking.ID)
	line("Issued", s.now().Format("2006-01-02 15:04"))
	if customer != nil {
		line("Customer", customer.FullName)
		line("Email", customer.Email)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Journey")
	pdf.Ln(9)
	line("From", booking.FromAddress)
	line("To", booking.ToAddress)
	line("Pickup", strings.TrimSpace(booking.BookingDate+" "+booking.BookingTime))
	if booking.ReturnDate != "" || booking.ReturnTime != "" {
		line("Return", strings.TrimSpace(booking.ReturnDate+" "+booking.ReturnTime))
	}
	line("Vehicle", strings.ToUpper(string(booking.CarType)))
	line("Passengers", fmt.Sprintf("%d", booking.NumberOfPersons))
	line("Luggage", fmt.Sprintf("%d", booking.Luggage))
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Payment")
	pdf.Ln(9)
	line("Amount", fmt.Sprintf("%.2f %s", booking.Amount, booking.Currency))
	line("Payment status", string(booking.PaymentStatus))
	line("Booking status", string(booking.Status))
	line("Transaction", booking.StripePaymentIntentID)
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Thank you for travelling with us.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}

	return &Receipt{
		Filename: fmt.Sprintf("RECEIPT_%s.pdf", safeFilenamePart(booking.ID)),
		PDF:      buf.Bytes(),
	}, nil
}

func orDash(v string) string {
	if strings.TrimSpace(v) == "" {
		return "-"
	}
	return v
}

func safeFilenamePart(v string) string {
	var b strings.Builder
	for _, r := range v {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "booking"
	}
	return b.String()
}
