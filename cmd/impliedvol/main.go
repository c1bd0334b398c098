package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/meenmo/blacklib/black"
	"github.com/meenmo/blacklib/term"
)

type volInput struct {
	TaskID string `json:"task_id,omitempty"`
	// Price, Forward and Strike accept JSON numbers or quoted decimal
	// strings, so quoted prices survive untouched.
	Price   decimal.Decimal `json:"price"`
	Forward decimal.Decimal `json:"forward"`
	Strike  decimal.Decimal `json:"strike"`
	// Expiry is the year fraction; alternatively pass the date pair.
	Expiry        *float64 `json:"expiry,omitempty"`
	ValuationDate string   `json:"valuation_date,omitempty"`
	ExpiryDate    string   `json:"expiry_date,omitempty"`
	DayCount      string   `json:"day_count,omitempty"`
	PutCall       string   `json:"put_call"`
}

type volOutput struct {
	TaskID        string  `json:"task_id,omitempty"`
	Expiry        float64 `json:"expiry"`
	PutCall       string  `json:"put_call"`
	ImpliedVol    float64 `json:"implied_vol"`
	Vega          float64 `json:"vega"`
	DVolDPrice    float64 `json:"dvol_dprice"`
	RepricedPrice float64 `json:"repriced_price"`
	Error         string  `json:"error,omitempty"`
}

func main() {
	inputPath := flag.String("input", "", "JSON input path (reads stdin if omitted)")
	help := flag.Bool("h", false, "Show help")
	flag.BoolVar(help, "help", false, "Show help")
	flag.Parse()

	if *help {
		fmt.Fprintln(os.Stderr, "Usage: impliedvol -input <path>")
		fmt.Fprintln(os.Stderr, "Invert the Black formula for volatility via Newton-Raphson.")
		return
	}

	path := strings.TrimSpace(*inputPath)
	if path == "" {
		if stat, err := os.Stdin.Stat(); err == nil && (stat.Mode()&os.ModeCharDevice) != 0 {
			fmt.Fprintln(os.Stderr, "Usage: impliedvol -input <path>")
			os.Exit(2)
		}
	}

	raw, err := readInput(path)
	if err != nil {
		exitError(fmt.Sprintf("read input: %v", err))
	}

	inputs, isArray, err := parseInputs(raw)
	if err != nil {
		exitError(fmt.Sprintf("parse JSON: %v", err))
	}

	hadError := false
	outputs := make([]volOutput, 0, len(inputs))
	for _, in := range inputs {
		out, err := process(in)
		if err != nil {
			hadError = true
			outputs = append(outputs, volOutput{TaskID: in.TaskID, Error: err.Error()})
			continue
		}
		outputs = append(outputs, *out)
	}

	if isArray {
		b, _ := json.Marshal(outputs)
		fmt.Println(string(b))
	} else {
		b, _ := json.Marshal(outputs[0])
		fmt.Println(string(b))
	}

	if hadError {
		os.Exit(1)
	}
}

func process(in volInput) (*volOutput, error) {
	pc, err := black.ParsePutCall(in.PutCall)
	if err != nil {
		return nil, err
	}
	expiry, err := resolveExpiry(in.Expiry, in.ValuationDate, in.ExpiryDate, in.DayCount)
	if err != nil {
		return nil, err
	}
	price := in.Price.InexactFloat64()
	forward := in.Forward.InexactFloat64()
	strike := in.Strike.InexactFloat64()

	vd, err := black.ImpliedVolatilityAdjoint(price, forward, strike, expiry, pc)
	if err != nil {
		return nil, err
	}
	vega, err := black.Vega(forward, strike, expiry, vd.Value)
	if err != nil {
		return nil, err
	}
	repriced, err := black.Price(forward, strike, expiry, vd.Value, pc)
	if err != nil {
		return nil, err
	}

	return &volOutput{
		TaskID:        in.TaskID,
		Expiry:        expiry,
		PutCall:       pc.String(),
		ImpliedVol:    vd.Value,
		Vega:          vega,
		DVolDPrice:    vd.Derivatives[0],
		RepricedPrice: repriced,
	}, nil
}

func resolveExpiry(expiry *float64, valuationDate, expiryDate, dayCount string) (float64, error) {
	if expiry != nil {
		return *expiry, nil
	}
	if valuationDate == "" || expiryDate == "" {
		return 0, fmt.Errorf("either expiry or valuation_date/expiry_date is required")
	}
	valuation, err := term.ParseDate(valuationDate)
	if err != nil {
		return 0, err
	}
	exp, err := term.ParseDate(expiryDate)
	if err != nil {
		return 0, err
	}
	return term.YearFraction(valuation, exp, term.Convention(dayCount))
}

func readInput(path string) ([]byte, error) {
	if path != "" {
		return os.ReadFile(path)
	}
	return io.ReadAll(os.Stdin)
}

func parseInputs(raw []byte) ([]volInput, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, false, fmt.Errorf("empty input")
	}
	if trimmed[0] == '[' {
		var inputs []volInput
		if err := json.Unmarshal(trimmed, &inputs); err != nil {
			return nil, true, err
		}
		if len(inputs) == 0 {
			return nil, true, fmt.Errorf("empty input array")
		}
		return inputs, true, nil
	}
	var input volInput
	if err := json.Unmarshal(trimmed, &input); err != nil {
		return nil, false, err
	}
	return []volInput{input}, false, nil
}

func exitError(msg string) {
	b, _ := json.Marshal(volOutput{Error: msg})
	fmt.Println(string(b))
	os.Exit(1)
}
