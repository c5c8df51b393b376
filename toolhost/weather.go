package toolhost

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/tidwall/gjson"
)

// WeatherArgs are the arguments of get_weather.
type WeatherArgs struct {
	Location string `json:"location" jsonschema:"city name, postcode or coordinates"`
	Days     int    `json:"days,omitempty" jsonschema:"number of forecast days, 1 for the current weather"`
	AQI      bool   `json:"aqi,omitempty" jsonschema:"include air quality data"`
}

// WeatherReport is the answer of get_weather: a status with either data or
// an error description.
type WeatherReport struct {
	Status    string       `json:"status"`
	Data      *WeatherData `json:"data,omitempty"`
	ErrorType string       `json:"error_type,omitempty"`
	Message   string       `json:"message,omitempty"`
}

// WeatherData is the normalized current weather.
type WeatherData struct {
	Location    string  `json:"location"`
	Temperature float64 `json:"temperature"`
	Condition   string  `json:"condition"`
	Humidity    int64   `json:"humidity"`
	Wind        string  `json:"wind"`
	LastUpdated string  `json:"last_updated"`
}

// Error types reported by get_weather.
const (
	ValidationError = "validation_error"
	NetworkError    = "network_error"
	UnexpectedError = "unexpected_error"
)

// weatherError carries the error type reported to the caller.
type weatherError struct {
	kind string
	err  error
}

func (e *weatherError) Error() string { return e.err.Error() }
func (e *weatherError) Unwrap() error { return e.err }

func (t *tools) getWeather(ctx context.Context, req *mcp.CallToolRequest, args WeatherArgs) (*mcp.CallToolResult, WeatherReport, error) {
	data, err := t.weather(ctx, args)
	if err != nil {
		log.Printf("get_weather %q: %v", args.Location, err)
		kind := UnexpectedError
		var werr *weatherError
		if errors.As(err, &werr) {
			kind = werr.kind
		}
		return nil, WeatherReport{Status: "error", ErrorType: kind, Message: err.Error()}, nil
	}
	return nil, WeatherReport{Status: "success", Data: data}, nil
}

// weather queries the current.json endpoint for a single day, and
// forecast.json otherwise.
func (t *tools) weather(ctx context.Context, args WeatherArgs) (*WeatherData, error) {
	if strings.TrimSpace(args.Location) == "" {
		return nil, &weatherError{ValidationError, errors.New("location must be a non-empty string")}
	}
	days := max(args.Days, 1)
	endpoint := "current.json"
	if days > 1 {
		endpoint = "forecast.json"
	}
	aqi := "no"
	if args.AQI {
		aqi = "yes"
	}
	query := url.Values{
		"key":  {t.cfg.WeatherAPIKey},
		"q":    {args.Location},
		"days": {strconv.Itoa(days)},
		"aqi":  {aqi},
	}

	ctx, cancel := context.WithTimeout(ctx, t.cfg.Timeout)
	defer cancel()
	u := strings.TrimSuffix(t.cfg.WeatherURL, "/") + "/" + endpoint + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := t.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, &weatherError{NetworkError, redactKey(err, t.cfg.WeatherAPIKey)}
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &weatherError{NetworkError, err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := gjson.GetBytes(body, "error.message").String()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &weatherError{NetworkError, fmt.Errorf("%d %s for %s", resp.StatusCode, msg, endpoint)}
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("weather API returned invalid JSON")
	}

	doc := gjson.ParseBytes(body)
	if apiErr := doc.Get("error"); apiErr.Exists() {
		msg := apiErr.Get("message").String()
		if msg == "" {
			msg = "Unknown error"
		}
		return nil, &weatherError{ValidationError, errors.New(msg)}
	}

	paths := []string{"location.name", "current.temp_c", "current.condition.text", "current.humidity", "current.wind_kph", "current.last_updated"}
	fields := gjson.GetManyBytes(body, paths...)
	for i, f := range fields {
		if !f.Exists() {
			return nil, fmt.Errorf("weather API response lacks %s", paths[i])
		}
	}
	return &WeatherData{
		Location:    fields[0].String(),
		Temperature: fields[1].Float(),
		Condition:   fields[2].String(),
		Humidity:    fields[3].Int(),
		Wind:        fields[4].Raw + " km/h",
		LastUpdated: fields[5].String(),
	}, nil
}

// redactKey removes the API key from a transport error, whose message
// includes the request URL.
func redactKey(err error, key string) error {
	if key == "" {
		return err
	}
	msg := strings.ReplaceAll(err.Error(), url.QueryEscape(key), "***")
	msg = strings.ReplaceAll(msg, key, "***")
	if msg == err.Error() {
		return err
	}
	return errors.New(msg)
}
