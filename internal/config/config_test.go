package config

import "testing"

func validConfig() Config {
	return Config{
		HTTP: HTTPConfig{Port: 8080},
		Accounting: AccountingConfig{
			BaseURL:   "http://localhost:8100",
			ProjectID: "00000000-0000-0000-0000-000000000001",
		},
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	for _, port := range []int{0, -1, 70000} {
		cfg := validConfig()
		cfg.HTTP.Port = port
		if err := cfg.Validate(); err == nil {
			t.Errorf("expected error for port %d", port)
		}
	}
}

func TestValidate_MissingAccountingBaseURL(t *testing.T) {
	cfg := validConfig()
	cfg.Accounting.BaseURL = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing accounting.base_url")
	}
}

func TestValidate_InvalidProjectID(t *testing.T) {
	cfg := validConfig()
	cfg.Accounting.ProjectID = "not-a-uuid"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid accounting.project_id")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("read timeout default = %d, want 10", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 30 {
		t.Errorf("write timeout default = %d, want 30", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("shutdown timeout default = %d, want 10", cfg.HTTP.ShutdownSec)
	}
	if cfg.LLM.Model == "" {
		t.Error("llm.model default must be set")
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("ACCT_TEST_URL", "http://accounting:8100")

	in := []byte("base_url: ${ACCT_TEST_URL}\nmodel: ${ACCT_TEST_MODEL:-gpt-4o-mini}\n")
	out := string(expandEnvVars(in))

	want := "base_url: http://accounting:8100\nmodel: gpt-4o-mini\n"
	if out != want {
		t.Errorf("expandEnvVars:\ngot:  %q\nwant: %q", out, want)
	}
}
