package client

import (
	"testing"

	masstransit "github.com/rafaela2/MassTransit"
)

func TestResponseVariantExclusive(t *testing.T) {
	resp := &Response{
		urn:     masstransit.URNOf[orderNotFound](),
		payload: &orderNotFound{OrderID: 7},
	}

	notFound, ok := As[orderNotFound](resp)
	if !ok || notFound.OrderID != 7 {
		t.Fatalf("As[orderNotFound] = %+v, %v", notFound, ok)
	}
	if _, ok := As[orderCanceled](resp); ok {
		t.Fatal("non-arrived variant reported present")
	}
	if _, ok := As[unrelatedReply](resp); ok {
		t.Fatal("undeclared type reported present")
	}

	var nilResp *Response
	if _, ok := As[orderCanceled](nilResp); ok {
		t.Fatal("nil response reported a variant")
	}
}

func TestDestructure2(t *testing.T) {
	resp := &Response{
		urn:     masstransit.URNOf[orderCanceled](),
		payload: &orderCanceled{OrderID: 42},
	}

	canceled, notFound := Destructure2[orderCanceled, orderNotFound](resp)
	if canceled == nil || canceled.OrderID != 42 {
		t.Fatalf("first slot = %+v", canceled)
	}
	if notFound != nil {
		t.Fatalf("second slot populated: %+v", notFound)
	}

	resp = &Response{
		urn:     masstransit.URNOf[orderNotFound](),
		payload: &orderNotFound{OrderID: 42},
	}
	canceled, notFound = Destructure2[orderCanceled, orderNotFound](resp)
	if canceled != nil || notFound == nil {
		t.Fatalf("slots = %+v, %+v", canceled, notFound)
	}
}
