package importer

import (
	"testing"
	"time"

	"github.com/paxol/money-tracker/pkg/models"
	"github.com/stretchr/testify/assert"
)

var testOpts = Options{
	DefaultWalletId:      "wallet-a",
	DefaultInCategoryId:  "cat-in",
	DefaultOutCategoryId: "cat-out",
	NumberStyle:          Italian,
}

func TestParse(t *testing.T) {
	t.Run("Headerless tab-separated paste", func(t *testing.T) {
		text := "x\t27/09/2023\tcontabilizzato\tBonifico stipendio\t1.234,56\n" +
			"x\t28/09/2023\tcontabilizzato\tSpesa supermercato\t-45,90"

		rows := Parse(text, testOpts)

		assert.Len(t, rows, 2)

		assert.True(t, rows[0].Valid())
		assert.Equal(t, int64(123456), rows[0].Draft.Amount)
		assert.Equal(t, models.Income, rows[0].Draft.Kind)
		assert.Equal(t, "cat-in", rows[0].Draft.CategoryId)
		assert.Equal(t, time.Date(2023, 9, 27, 0, 0, 0, 0, time.UTC), rows[0].Draft.Date)
		assert.Equal(t, "Bonifico stipendio", rows[0].Draft.Description)
		assert.Equal(t, "wallet-a", rows[0].Draft.WalletId)

		assert.True(t, rows[1].Valid())
		assert.Equal(t, int64(4590), rows[1].Draft.Amount)
		assert.Equal(t, models.Expense, rows[1].Draft.Kind)
		assert.Equal(t, "cat-out", rows[1].Draft.CategoryId)
	})

	t.Run("Italian header is detected and skipped", func(t *testing.T) {
		text := "Data operazione;Descrizione;Importo\n" +
			"02/10/2023;Abbonamento;-9,99"

		rows := Parse(text, testOpts)

		assert.Len(t, rows, 1)
		assert.True(t, rows[0].Valid())
		assert.Equal(t, int64(999), rows[0].Draft.Amount)
		assert.Equal(t, models.Expense, rows[0].Draft.Kind)
		assert.Equal(t, "Abbonamento", rows[0].Draft.Description)
	})

	t.Run("English header with english numbers", func(t *testing.T) {
		opts := testOpts
		opts.NumberStyle = English
		text := "Date\tDescription\tAmount\n" +
			"05/10/2023\tRefund\t1,234.50"

		rows := Parse(text, opts)

		assert.Len(t, rows, 1)
		assert.True(t, rows[0].Valid())
		assert.Equal(t, int64(123450), rows[0].Draft.Amount)
		assert.Equal(t, models.Income, rows[0].Draft.Kind)
	})

	t.Run("Empty lines are skipped and indices preserved", func(t *testing.T) {
		text := "Data;Descrizione;Importo\n\n01/10/2023;Caffe;-1,20\n\n"

		rows := Parse(text, testOpts)

		assert.Len(t, rows, 1)
		assert.Equal(t, 2, rows[0].SourceIndex)
		assert.Equal(t, "01/10/2023;Caffe;-1,20", rows[0].SourceLine)
	})

	t.Run("Bad rows carry field errors instead of failing the parse", func(t *testing.T) {
		text := "Data;Descrizione;Importo\n" +
			"not-a-date;;abc"

		rows := Parse(text, testOpts)

		assert.Len(t, rows, 1)
		assert.False(t, rows[0].Valid())
		assert.Contains(t, rows[0].Errors, "date")
		assert.Contains(t, rows[0].Errors, "amount")
		assert.Contains(t, rows[0].Errors, "description")
	})

	t.Run("Missing defaults flag wallet and category", func(t *testing.T) {
		text := "Data;Descrizione;Importo\n01/10/2023;Caffe;-1,20"

		rows := Parse(text, Options{})

		assert.Len(t, rows, 1)
		assert.Contains(t, rows[0].Errors, "wallet")
		assert.Contains(t, rows[0].Errors, "category")
	})

	t.Run("POS description overrides date and merchant", func(t *testing.T) {
		text := "Data;Descrizione;Importo\n" +
			"30/09/2023;POS CARTA VISA N. ****1234 DEL 28/09/23 ORE 18:45 C /O SUPERMERCATO ROSSI;-54,30"

		rows := Parse(text, testOpts)

		assert.Len(t, rows, 1)
		assert.True(t, rows[0].Valid())
		assert.Equal(t, "SUPERMERCATO ROSSI", rows[0].Draft.Description)
		assert.Equal(t, time.Date(2023, 9, 28, 18, 45, 0, 0, time.UTC), rows[0].Draft.Date)
		assert.Equal(t, int64(5430), rows[0].Draft.Amount)
	})
}

func TestDrafts(t *testing.T) {
	text := "Data;Descrizione;Importo\n" +
		"01/10/2023;Valid row;-1,20\n" +
		"bad;Broken row;xx\n" +
		"03/10/2023;Another valid;2,00"

	rows := Parse(text, testOpts)
	drafts := Drafts(rows)

	assert.Len(t, rows, 3)
	assert.Len(t, drafts, 2)
	assert.Equal(t, "Valid row", drafts[0].Description)
	assert.Equal(t, "Another valid", drafts[1].Description)
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"27/09/2023", time.Date(2023, 9, 27, 0, 0, 0, 0, time.UTC), true},
		{"27-09-23", time.Date(2023, 9, 27, 0, 0, 0, 0, time.UTC), true},
		{"1/2/99", time.Date(1999, 2, 1, 0, 0, 0, 0, time.UTC), true},
		{"5/6/69", time.Date(2069, 6, 5, 0, 0, 0, 0, time.UTC), true},
		{"32/01/2023", time.Time{}, false},
		{"01/13/2023", time.Time{}, false},
		{"yesterday", time.Time{}, false},
		{"", time.Time{}, false},
	}

	for _, tc := range cases {
		got, ok := parseDate(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		if tc.ok {
			assert.Equal(t, tc.want, got, tc.in)
		}
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in       string
		style    NumberStyle
		cents    int64
		negative bool
		ok       bool
	}{
		{"1.234,56", Italian, 123456, false, true},
		{"-45,90", Italian, 4590, true, true},
		{"12", Italian, 1200, false, true},
		{",5", Italian, 50, false, true},
		{"+3,00", Italian, 300, false, true},
		{"(7,50)", Italian, 750, true, true},
		{"1,234.56", English, 123456, false, true},
		{"-0.99", English, 99, true, true},
		// Half-up rounding on the third decimal.
		{"1,005", Italian, 101, false, true},
		{"1,004", Italian, 100, false, true},
		{"", Italian, 0, false, false},
		{"abc", Italian, 0, false, false},
		{"1.2.3", English, 0, false, false},
	}

	for _, tc := range cases {
		cents, negative, ok := parseAmount(tc.in, tc.style)
		assert.Equal(t, tc.ok, ok, tc.in)
		if tc.ok {
			assert.Equal(t, tc.cents, cents, tc.in)
			assert.Equal(t, tc.negative, negative, tc.in)
		}
	}
}
