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

type priceInput struct {
	TaskID string `json:"task_id,omitempty"`
	// Forward and Strike accept JSON numbers or quoted decimal strings.
	Forward decimal.Decimal `json:"forward"`
	Strike  decimal.Decimal `json:"strike"`
	// Expiry is the year fraction; alternatively pass the date pair.
	Expiry        *float64 `json:"expiry,omitempty"`
	ValuationDate string   `json:"valuation_date,omitempty"`
	ExpiryDate    string   `json:"expiry_date,omitempty"`
	DayCount      string   `json:"day_count,omitempty"`
	Vol           float64  `json:"vol"`
	PutCall       string   `json:"put_call"`
	Rate          float64  `json:"rate,omitempty"`
}

type priceOutput struct {
	TaskID         string    `json:"task_id,omitempty"`
	Expiry         float64   `json:"expiry"`
	PutCall        string    `json:"put_call"`
	Price          float64   `json:"price"`
	Delta          float64   `json:"delta"`
	DualDelta      float64   `json:"dual_delta"`
	Gamma          float64   `json:"gamma"`
	DualGamma      float64   `json:"dual_gamma"`
	CrossGamma     float64   `json:"cross_gamma"`
	Vega           float64   `json:"vega"`
	Vanna          float64   `json:"vanna"`
	DualVanna      float64   `json:"dual_vanna"`
	Vomma          float64   `json:"vomma"`
	Theta          float64   `json:"theta"`
	DriftlessTheta float64   `json:"driftless_theta"`
	ThetaMod       float64   `json:"theta_mod"`
	Gradient       []float64 `json:"gradient"` // [dF, dK, dT, dVol]
	Error          string    `json:"error,omitempty"`
}

func main() {
	inputPath := flag.String("input", "", "JSON input path (reads stdin if omitted)")
	help := flag.Bool("h", false, "Show help")
	flag.BoolVar(help, "help", false, "Show help")
	flag.Parse()

	if *help {
		fmt.Fprintln(os.Stderr, "Usage: blackprice -input <path>")
		fmt.Fprintln(os.Stderr, "Compute the Black option price, Greeks and adjoint gradient.")
		return
	}

	path := strings.TrimSpace(*inputPath)
	if path == "" {
		if stat, err := os.Stdin.Stat(); err == nil && (stat.Mode()&os.ModeCharDevice) != 0 {
			fmt.Fprintln(os.Stderr, "Usage: blackprice -input <path>")
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
	outputs := make([]priceOutput, 0, len(inputs))
	for _, in := range inputs {
		out, err := process(in)
		if err != nil {
			hadError = true
			outputs = append(outputs, priceOutput{TaskID: in.TaskID, Error: err.Error()})
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

func process(in priceInput) (*priceOutput, error) {
	pc, err := black.ParsePutCall(in.PutCall)
	if err != nil {
		return nil, err
	}
	expiry, err := resolveExpiry(in.Expiry, in.ValuationDate, in.ExpiryDate, in.DayCount)
	if err != nil {
		return nil, err
	}
	forward := in.Forward.InexactFloat64()
	strike := in.Strike.InexactFloat64()

	vd, hess, err := black.PriceAdjoint2(forward, strike, expiry, in.Vol, pc)
	if err != nil {
		return nil, err
	}
	driftless, err := black.DriftlessTheta(forward, strike, expiry, in.Vol)
	if err != nil {
		return nil, err
	}
	theta, err := black.Theta(forward, strike, expiry, in.Vol, pc, in.Rate)
	if err != nil {
		return nil, err
	}
	thetaMod, err := black.ThetaMod(forward, strike, expiry, in.Vol, pc, in.Rate)
	if err != nil {
		return nil, err
	}

	return &priceOutput{
		TaskID:         in.TaskID,
		Expiry:         expiry,
		PutCall:        pc.String(),
		Price:          vd.Value,
		Delta:          vd.Derivatives[0],
		DualDelta:      vd.Derivatives[1],
		Gamma:          hess[0][0],
		DualGamma:      hess[1][1],
		CrossGamma:     hess[0][1],
		Vega:           vd.Derivatives[3],
		Vanna:          hess[0][3],
		DualVanna:      hess[1][3],
		Vomma:          hess[3][3],
		Theta:          theta,
		DriftlessTheta: driftless,
		ThetaMod:       thetaMod,
		Gradient:       vd.Derivatives,
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

func parseInputs(raw []byte) ([]priceInput, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, false, fmt.Errorf("empty input")
	}
	if trimmed[0] == '[' {
		var inputs []priceInput
		if err := json.Unmarshal(trimmed, &inputs); err != nil {
			return nil, true, err
		}
		if len(inputs) == 0 {
			return nil, true, fmt.Errorf("empty input array")
		}
		return inputs, true, nil
	}
	var input priceInput
	if err := json.Unmarshal(trimmed, &input); err != nil {
		return nil, false, err
	}
	return []priceInput{input}, false, nil
}

func exitError(msg string) {
	b, _ := json.Marshal(priceOutput{Error: msg})
	fmt.Println(string(b))
	os.Exit(1)
}
