package toolhost

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) != 1 {
		t.Fatalf("result = %v, want a single content", res)
	}
	text, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want text", res.Content[0])
	}
	return text.Text
}

func TestWebSearch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if body["api_key"] != "tavily-key" {
			http.Error(w, `{"detail":{"error":"Unauthorized: missing or invalid API key."}}`, http.StatusUnauthorized)
			return
		}
		io.WriteString(w, `{"query":"`+body["query"].(string)+`","results":[{"title":"Go","url":"https://go.dev","content":"The Go language","score":0.9}],"response_time":0.5}`)
	}))
	defer ts.Close()

	tl := testTools(t, ts.URL, "")
	res, _, err := tl.webSearch(context.Background(), nil, SearchArgs{Query: "golang"})
	if err != nil {
		t.Fatalf("webSearch: %v", err)
	}
	want := `[{"title":"Go","url":"https://go.dev","content":"The Go language","score":0.9}]`
	if got := resultText(t, res); got != want {
		t.Errorf("webSearch = %s, want %s", got, want)
	}

	tl.cfg.TavilyAPIKey = "wrong"
	res, _, err = tl.webSearch(context.Background(), nil, SearchArgs{Query: "golang"})
	if err != nil {
		t.Fatalf("webSearch: %v", err)
	}
	var failure map[string]string
	if err := json.Unmarshal([]byte(resultText(t, res)), &failure); err != nil {
		t.Fatalf("error result is not JSON: %v", err)
	}
	if !strings.Contains(failure["error"], "Unauthorized") {
		t.Errorf("error = %q, want the API message", failure["error"])
	}
}

const currentWeather = `{
  "location": {"name": "Paris", "country": "France"},
  "current": {
    "last_updated": "2025-06-01 14:00",
    "temp_c": 21.5,
    "condition": {"text": "Partly cloudy"},
    "wind_kph": 13.0,
    "humidity": 60
  }
}`

func TestGetWeather(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("q") {
		case "Nowhere":
			w.WriteHeader(http.StatusBadRequest)
			io.WriteString(w, `{"error":{"code":1006,"message":"No matching location found."}}`)
		case "Quirk":
			io.WriteString(w, `{"error":{"code":9999,"message":"Internal application error."}}`)
		case "Partial":
			io.WriteString(w, `{"location":{"name":"Partial"},"current":{}}`)
		default:
			io.WriteString(w, currentWeather)
		}
	}))
	defer ts.Close()
	tl := testTools(t, "", ts.URL+"/v1")

	tests := []struct {
		name string
		args WeatherArgs
		want WeatherReport
	}{
		{
			name: "current",
			args: WeatherArgs{Location: "Paris"},
			want: WeatherReport{Status: "success", Data: &WeatherData{
				Location:    "Paris",
				Temperature: 21.5,
				Condition:   "Partly cloudy",
				Humidity:    60,
				Wind:        "13.0 km/h",
				LastUpdated: "2025-06-01 14:00",
			}},
		},
		{
			name: "blank location",
			args: WeatherArgs{Location: "  "},
			want: WeatherReport{Status: "error", ErrorType: ValidationError, Message: "location must be a non-empty string"},
		},
		{
			name: "api error in body",
			args: WeatherArgs{Location: "Quirk"},
			want: WeatherReport{Status: "error", ErrorType: ValidationError, Message: "Internal application error."},
		},
		{
			name: "http error",
			args: WeatherArgs{Location: "Nowhere"},
			want: WeatherReport{Status: "error", ErrorType: NetworkError, Message: "400 No matching location found. for current.json"},
		},
		{
			name: "missing fields",
			args: WeatherArgs{Location: "Partial"},
			want: WeatherReport{Status: "error", ErrorType: UnexpectedError, Message: "weather API response lacks current.temp_c"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, got, err := tl.getWeather(context.Background(), nil, tt.args)
			if err != nil {
				t.Fatalf("getWeather: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("getWeather mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGetWeather_Endpoint(t *testing.T) {
	var got []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		got = append(got, strings.Join([]string{r.URL.Path, q.Get("key"), q.Get("q"), q.Get("days"), q.Get("aqi")}, " "))
		io.WriteString(w, currentWeather)
	}))
	defer ts.Close()
	tl := testTools(t, "", ts.URL+"/v1/")

	for _, args := range []WeatherArgs{
		{Location: "Paris"},
		{Location: "Paris", Days: 1, AQI: true},
		{Location: "Paris", Days: 3},
	} {
		if _, _, err := tl.getWeather(context.Background(), nil, args); err != nil {
			t.Fatalf("getWeather: %v", err)
		}
	}
	want := []string{
		"/v1/current.json weather-key Paris 1 no",
		"/v1/current.json weather-key Paris 1 yes",
		"/v1/forecast.json weather-key Paris 3 no",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("requests mismatch (-want +got):\n%s", diff)
	}
}

func TestGetWeather_Unreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	tl := testTools(t, "", url)
	_, got, err := tl.getWeather(context.Background(), nil, WeatherArgs{Location: "Paris"})
	if err != nil {
		t.Fatalf("getWeather: %v", err)
	}
	if got.Status != "error" || got.ErrorType != NetworkError {
		t.Errorf("getWeather = %+v, want a network error", got)
	}
	if strings.Contains(got.Message, "weather-key") {
		t.Errorf("error message leaks the API key: %s", got.Message)
	}
}

func TestRunCommand(t *testing.T) {
	tl := testTools(t, "", "")
	workspace, err := filepath.EvalSymlinks(tl.cfg.Workspace)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		command string
		want    string
	}{
		{"echo hello", "hello\n"},
		{"pwd -P", workspace + "\n"},
		{"echo oops >&2", "oops\n"},
		{"echo out; echo err >&2; exit 1", "out\n"},
		{"exit 3", "exit status 3"},
		{"true", ""},
	}
	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			res, _, err := tl.runCommand(context.Background(), nil, CommandArgs{Command: tt.command})
			if err != nil {
				t.Fatalf("runCommand: %v", err)
			}
			if got := resultText(t, res); got != tt.want {
				t.Errorf("runCommand(%q) = %q, want %q", tt.command, got, tt.want)
			}
		})
	}
}
