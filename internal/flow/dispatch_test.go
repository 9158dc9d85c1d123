package flow

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/arogyalabs/arogya/pkg/client"
	"github.com/arogyalabs/arogya/pkg/domain"
)

func TestDispatchBothChannels(t *testing.T) {
	api := &fakeAPI{
		sendEmailFn: func(email string) (*client.SendOTPResponse, error) {
			return &client.SendOTPResponse{Success: true, Message: "OTP sent to " + email, DevOTP: "123456"}, nil
		},
		sendPhoneFn: func(phone string) (*client.SendOTPResponse, error) {
			return &client.SendOTPResponse{Success: true, Message: "OTP sent to " + phone, Sid: "SM1"}, nil
		},
	}

	res := Dispatch(context.Background(), api, "asha@example.in", "+919876543210")
	if !res.AllSent() {
		t.Fatalf("AllSent() = false: %+v", res)
	}
	if res.Err() != nil {
		t.Errorf("Err() = %v, want nil", res.Err())
	}
	if res.Email.DevOTP != "123456" {
		t.Errorf("email DevOTP = %q, want passthrough", res.Email.DevOTP)
	}
	if res.Phone.Sid != "SM1" {
		t.Errorf("phone Sid = %q, want SM1", res.Phone.Sid)
	}
	if api.sendEmailCalls != 1 || api.sendPhoneCalls != 1 {
		t.Errorf("calls = %d/%d, want 1/1", api.sendEmailCalls, api.sendPhoneCalls)
	}
}

func TestDispatchPartialFailureKeepsOtherChannel(t *testing.T) {
	api := &fakeAPI{
		sendPhoneFn: func(string) (*client.SendOTPResponse, error) {
			return nil, errors.New("sms gateway timeout")
		},
	}

	res := Dispatch(context.Background(), api, "asha@example.in", "+919876543210")
	if !res.Email.Sent {
		t.Error("email send should survive a phone failure")
	}
	if res.Phone.Sent {
		t.Error("phone Sent = true, want false")
	}
	if res.AllSent() || !res.AnySent() {
		t.Errorf("AllSent=%v AnySent=%v, want false/true", res.AllSent(), res.AnySent())
	}

	failed := res.Failed()
	if len(failed) != 1 || failed[0] != domain.ChannelPhone {
		t.Errorf("Failed() = %v, want [phone]", failed)
	}
	if err := res.Err(); err == nil || !strings.Contains(err.Error(), "phone") {
		t.Errorf("Err() = %v, want it to name the phone channel", err)
	}
}

func TestDispatchBothFail(t *testing.T) {
	api := &fakeAPI{
		sendEmailFn: func(string) (*client.SendOTPResponse, error) {
			return &client.SendOTPResponse{Success: false, Message: "mailer down"}, nil
		},
		sendPhoneFn: func(string) (*client.SendOTPResponse, error) {
			return nil, errors.New("sms gateway timeout")
		},
	}

	res := Dispatch(context.Background(), api, "asha@example.in", "+919876543210")
	if res.AnySent() {
		t.Error("AnySent() = true, want false")
	}
	err := res.Err()
	if err == nil || !strings.Contains(err.Error(), "email") || !strings.Contains(err.Error(), "phone") {
		t.Errorf("Err() = %v, want both channels named", err)
	}
	if res.Email.Err == nil || res.Email.Err.Error() != "mailer down" {
		t.Errorf("email Err = %v, want the provider message", res.Email.Err)
	}
}

func TestResendIsIndependent(t *testing.T) {
	api := &fakeAPI{}

	for i := 0; i < 3; i++ {
		res := Resend(context.Background(), api, domain.ChannelEmail, "asha@example.in", "")
		if !res.Sent {
			t.Fatalf("resend %d not sent", i)
		}
	}
	if api.sendEmailCalls != 3 {
		t.Errorf("sendEmailCalls = %d, want 3", api.sendEmailCalls)
	}
	if api.sendPhoneCalls != 0 {
		t.Errorf("sendPhoneCalls = %d, want 0: resend targets one channel", api.sendPhoneCalls)
	}
}
