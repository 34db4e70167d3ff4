package models

import "testing"

func TestParseContractStatus(t *testing.T) {
	for _, valid := range []string{"pending", "completed", "cancelled"} {
		s, err := ParseContractStatus(valid)
		if err != nil {
			t.Errorf("ParseContractStatus(%q): %v", valid, err)
		}
		if string(s) != valid {
			t.Errorf("ParseContractStatus(%q) = %q", valid, s)
		}
	}
	for _, invalid := range []string{"", "active", "PENDING", "done"} {
		if _, err := ParseContractStatus(invalid); err == nil {
			t.Errorf("ParseContractStatus(%q) accepted", invalid)
		}
	}
}

func TestContractStatusTerminal(t *testing.T) {
	if ContractStatusPending.Terminal() {
		t.Error("pending reported terminal")
	}
	if !ContractStatusCompleted.Terminal() || !ContractStatusCancelled.Terminal() {
		t.Error("completed/cancelled not reported terminal")
	}
}
