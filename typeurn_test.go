package masstransit

import (
	"strings"
	"testing"
)

type orderCanceled struct {
	OrderID int64
}

type orderNotFound struct {
	OrderID int64
}

func TestMessageURN(t *testing.T) {
	urn := URNOf[orderCanceled]()
	if !strings.HasPrefix(urn, "urn:message:") {
		t.Fatalf("bad urn prefix: %s", urn)
	}
	if !strings.HasSuffix(urn, ":orderCanceled") {
		t.Fatalf("bad urn suffix: %s", urn)
	}
	if urn != URNOfValue(&orderCanceled{}) {
		t.Fatal("pointer and type parameter urns differ")
	}
	if urn == URNOf[orderNotFound]() {
		t.Fatal("distinct types share a urn")
	}
}

func TestAcceptTypesRoundTrip(t *testing.T) {
	urns := []string{URNOf[orderCanceled](), URNOf[orderNotFound]()}
	header := EncodeAcceptTypes(urns)
	decoded := DecodeAcceptTypes(header)
	if len(decoded) != 2 || decoded[0] != urns[0] || decoded[1] != urns[1] {
		t.Fatalf("round trip mismatch: %v", decoded)
	}
	if got := DecodeAcceptTypes(""); got != nil {
		t.Fatalf("empty header decoded to %v", got)
	}
}

func TestIsAccepted(t *testing.T) {
	a := URNOf[orderCanceled]()
	b := URNOf[orderNotFound]()
	header := EncodeAcceptTypes([]string{a})

	if !IsAccepted(header, a) {
		t.Fatal("declared type rejected")
	}
	if IsAccepted(header, b) {
		t.Fatal("undeclared type accepted")
	}
	// 头部缺失：对任何类型都接受（对旧请求方的兼容默认值）
	if !IsAccepted("", a) || !IsAccepted("", b) || !IsAccepted("", "urn:message:whatever:X") {
		t.Fatal("missing header must accept every type")
	}
}
