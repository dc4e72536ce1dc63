package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/Akinkuowo/Swophere/internal/models"
)

func newAgreementHandlerForTest(env *testEnv) *AgreementHandler {
	return NewAgreementHandler(env.agreements, env.notifications, env.users)
}

func createTestAgreement(t *testing.T, env *testEnv, h *AgreementHandler, from, to string) string {
	t.Helper()
	c, rec := env.request(http.MethodPost, "/api/agreements/create", models.CreateAgreementRequest{
		FromUser: from,
		ToUser:   to,
		AgreementData: models.AgreementData{
			AgreementTitle: "Guitar for Sourdough",
			AgreementType:  models.AgreementTypeSkillSwap,
			Terms:          "weekly sessions, materials included",
			Skills: []models.SkillItem{
				{SkillName: "Guitar", Duration: "2 weeks", Deliverables: []string{"3 lessons"}},
				{SkillName: "Baking", Duration: "1 month"},
			},
			CommunicationMethod: "video call",
		},
	})
	if err := h.CreateAgreement(c); err != nil {
		t.Fatalf("CreateAgreement returned error: %v", err)
	}
	body := expectOK(t, rec)
	agreement := body["agreement"].(map[string]interface{})
	swopID, _ := agreement["swop_id"].(string)
	if swopID == "" {
		t.Fatal("expected a swop_id in the create response")
	}
	return swopID
}

func TestCreateAgreement(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "alice")
	env.seedUser(t, "bob")
	h := newAgreementHandlerForTest(env)

	swopID := createTestAgreement(t, env, h, "alice", "bob")
	if !strings.HasPrefix(swopID, "SKILL_SWOP_") {
		t.Errorf("swop_id = %q, want SKILL_SWOP_ prefix", swopID)
	}

	agreement, err := env.agreements.GetBySwopID(swopID)
	if err != nil {
		t.Fatalf("GetBySwopID: %v", err)
	}
	if agreement.AgreementStatus != models.AgreementStatusPending {
		t.Errorf("status = %q, want pending", agreement.AgreementStatus)
	}
	if !agreement.FromUserAccepted {
		t.Error("creating implies the proposer's acceptance")
	}
	if agreement.ToUserAccepted {
		t.Error("recipient must not be accepted at creation")
	}
	if agreement.TimelineDays != 30 {
		t.Errorf("timelineDays = %d, want 30 (max of 2 weeks and 1 month)", agreement.TimelineDays)
	}
	var skills []models.SkillItem
	if err := json.Unmarshal(agreement.Skills, &skills); err != nil {
		t.Fatalf("stored skills: %v", err)
	}
	if len(skills) != 2 || skills[0].SkillName != "Guitar" {
		t.Errorf("stored skills = %+v", skills)
	}

	// recipient gets the proposal, proposer gets the confirmation
	bobNotifs, _, err := env.notifications.GetByUser("bob", 20, 0, false)
	if err != nil || len(bobNotifs) != 1 {
		t.Fatalf("bob notifications = %d (err %v), want 1", len(bobNotifs), err)
	}
	if bobNotifs[0].Type != models.NotificationTypeSkillCreated {
		t.Errorf("bob notification type = %q", bobNotifs[0].Type)
	}
	if bobNotifs[0].RelatedID != swopID {
		t.Errorf("bob notification relatedId = %q, want %q", bobNotifs[0].RelatedID, swopID)
	}
	var metadata map[string]interface{}
	if err := json.Unmarshal(bobNotifs[0].Metadata, &metadata); err != nil {
		t.Fatalf("bob notification metadata: %v", err)
	}
	if metadata["skillsCount"] != float64(2) {
		t.Errorf("metadata skillsCount = %v, want 2", metadata["skillsCount"])
	}

	aliceNotifs, _, err := env.notifications.GetByUser("alice", 20, 0, false)
	if err != nil || len(aliceNotifs) != 1 {
		t.Fatalf("alice notifications = %d (err %v), want 1", len(aliceNotifs), err)
	}
	if aliceNotifs[0].Type != models.NotificationTypeSkillSent {
		t.Errorf("alice notification type = %q", aliceNotifs[0].Type)
	}
}

func TestCreateAgreementValidation(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "alice")
	h := newAgreementHandlerForTest(env)

	// missing toUser fails validation
	c, rec := env.request(http.MethodPost, "/api/agreements/create", map[string]interface{}{
		"fromUser": "alice",
	})
	if err := h.CreateAgreement(c); err != nil {
		t.Fatalf("CreateAgreement returned error: %v", err)
	}
	expectFailure(t, rec, http.StatusBadRequest, "fromUser, toUser and agreementData are required")

	// unknown counterpart
	c, rec = env.request(http.MethodPost, "/api/agreements/create", models.CreateAgreementRequest{
		FromUser: "alice",
		ToUser:   "ghost",
	})
	if err := h.CreateAgreement(c); err != nil {
		t.Fatalf("CreateAgreement returned error: %v", err)
	}
	expectFailure(t, rec, http.StatusNotFound, "One or both users not found")
}

func TestAcceptAgreement(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "alice")
	env.seedUser(t, "bob")
	h := newAgreementHandlerForTest(env)

	swopID := createTestAgreement(t, env, h, "alice", "bob")

	// the proposer cannot accept their own proposal
	c, rec := env.request(http.MethodPost, "/api/agreements/"+swopID+"/accept", map[string]string{"username": "alice"})
	c.SetParamNames("swopId")
	c.SetParamValues(swopID)
	if err := h.AcceptAgreement(c); err != nil {
		t.Fatalf("AcceptAgreement returned error: %v", err)
	}
	expectFailure(t, rec, http.StatusForbidden, "Only the agreement recipient can accept this agreement")

	// unknown agreement
	c, rec = env.request(http.MethodPost, "/api/agreements/missing/accept", map[string]string{"username": "bob"})
	c.SetParamNames("swopId")
	c.SetParamValues("missing")
	if err := h.AcceptAgreement(c); err != nil {
		t.Fatalf("AcceptAgreement returned error: %v", err)
	}
	expectFailure(t, rec, http.StatusNotFound, "Agreement not found")

	// the recipient accepts
	c, rec = env.request(http.MethodPost, "/api/agreements/"+swopID+"/accept", map[string]string{"username": "bob"})
	c.SetParamNames("swopId")
	c.SetParamValues(swopID)
	if err := h.AcceptAgreement(c); err != nil {
		t.Fatalf("AcceptAgreement returned error: %v", err)
	}
	body := expectOK(t, rec)
	returned := body["agreement"].(map[string]interface{})
	if returned["agreement_status"] != models.AgreementStatusAccepted {
		t.Errorf("returned status = %v, want accepted", returned["agreement_status"])
	}

	agreement, err := env.agreements.GetBySwopID(swopID)
	if err != nil {
		t.Fatalf("GetBySwopID: %v", err)
	}
	if agreement.AgreementStatus != models.AgreementStatusAccepted || !agreement.ToUserAccepted {
		t.Errorf("stored agreement = %q toUserAccepted=%v", agreement.AgreementStatus, agreement.ToUserAccepted)
	}

	// the proposer is notified
	aliceNotifs, _, err := env.notifications.GetByUser("alice", 20, 0, false)
	if err != nil {
		t.Fatalf("GetByUser(alice): %v", err)
	}
	found := false
	for _, n := range aliceNotifs {
		if n.Type == models.NotificationTypeAccepted && n.RelatedID == swopID {
			found = true
		}
	}
	if !found {
		t.Error("expected an AGREEMENT_ACCEPTED notification for the proposer")
	}

	// accepting twice is rejected
	c, rec = env.request(http.MethodPost, "/api/agreements/"+swopID+"/accept", map[string]string{"username": "bob"})
	c.SetParamNames("swopId")
	c.SetParamValues(swopID)
	if err := h.AcceptAgreement(c); err != nil {
		t.Fatalf("AcceptAgreement returned error: %v", err)
	}
	expectFailure(t, rec, http.StatusBadRequest, "Agreement already accepted")
}

func TestDeclineAgreement(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "alice")
	env.seedUser(t, "bob")
	h := newAgreementHandlerForTest(env)

	swopID := createTestAgreement(t, env, h, "alice", "bob")

	// only the recipient may decline
	c, rec := env.request(http.MethodPost, "/api/agreements/"+swopID+"/decline", map[string]string{"username": "alice"})
	c.SetParamNames("swopId")
	c.SetParamValues(swopID)
	if err := h.DeclineAgreement(c); err != nil {
		t.Fatalf("DeclineAgreement returned error: %v", err)
	}
	expectFailure(t, rec, http.StatusForbidden, "Only the agreement recipient can decline this agreement")

	c, rec = env.request(http.MethodPost, "/api/agreements/"+swopID+"/decline", map[string]string{
		"username": "bob",
		"reason":   "schedule conflict",
	})
	c.SetParamNames("swopId")
	c.SetParamValues(swopID)
	if err := h.DeclineAgreement(c); err != nil {
		t.Fatalf("DeclineAgreement returned error: %v", err)
	}
	expectOK(t, rec)

	agreement, err := env.agreements.GetBySwopID(swopID)
	if err != nil {
		t.Fatalf("GetBySwopID: %v", err)
	}
	if agreement.AgreementStatus != models.AgreementStatusDeclined {
		t.Errorf("status = %q, want declined", agreement.AgreementStatus)
	}

	aliceNotifs, _, err := env.notifications.GetByUser("alice", 20, 0, false)
	if err != nil {
		t.Fatalf("GetByUser(alice): %v", err)
	}
	var declined *models.Notification
	for i := range aliceNotifs {
		if aliceNotifs[i].Type == models.NotificationTypeDeclined {
			declined = &aliceNotifs[i]
		}
	}
	if declined == nil {
		t.Fatal("expected an AGREEMENT_DECLINED notification for the proposer")
	}
	var metadata map[string]string
	if err := json.Unmarshal(declined.Metadata, &metadata); err != nil {
		t.Fatalf("declined metadata: %v", err)
	}
	if metadata["reason"] != "schedule conflict" {
		t.Errorf("metadata reason = %q", metadata["reason"])
	}

	// declining again goes through; there is no status guard
	c, rec = env.request(http.MethodPost, "/api/agreements/"+swopID+"/decline", map[string]string{"username": "bob"})
	c.SetParamNames("swopId")
	c.SetParamValues(swopID)
	if err := h.DeclineAgreement(c); err != nil {
		t.Fatalf("DeclineAgreement returned error: %v", err)
	}
	expectOK(t, rec)
}

func TestGetAgreements(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "alice")
	env.seedUser(t, "bob")
	env.seedUser(t, "carol")
	h := newAgreementHandlerForTest(env)

	createTestAgreement(t, env, h, "alice", "bob")
	createTestAgreement(t, env, h, "carol", "alice")
	createTestAgreement(t, env, h, "bob", "carol")

	c, rec := env.request(http.MethodGet, "/api/agreements?username=alice", nil)
	if err := h.GetAgreements(c); err != nil {
		t.Fatalf("GetAgreements returned error: %v", err)
	}
	body := expectOK(t, rec)
	agreements, _ := body["agreements"].([]interface{})
	if len(agreements) != 2 {
		t.Errorf("alice agreements = %d, want 2", len(agreements))
	}

	// username is mandatory
	c, rec = env.request(http.MethodGet, "/api/agreements", nil)
	if err := h.GetAgreements(c); err != nil {
		t.Fatalf("GetAgreements returned error: %v", err)
	}
	expectFailure(t, rec, http.StatusBadRequest, "Username is required")
}

func TestGenerateSwopIDFormat(t *testing.T) {
	id := generateSwopID()
	parts := strings.Split(id, "_")
	if len(parts) != 4 || parts[0] != "SKILL" || parts[1] != "SWOP" {
		t.Fatalf("swop id = %q, want SKILL_SWOP_<millis>_<suffix>", id)
	}
	if _, err := strconv.ParseInt(parts[2], 10, 64); err != nil {
		t.Errorf("swop id timestamp part %q is not numeric", parts[2])
	}
	if len(parts[3]) != 9 {
		t.Errorf("swop id suffix %q has length %d, want 9", parts[3], len(parts[3]))
	}
	if other := generateSwopID(); other == id {
		t.Error("two generated swop ids should differ")
	}
}

func TestCalculateTimelineDays(t *testing.T) {
	skillsWith := func(durations ...string) []models.SkillItem {
		skills := make([]models.SkillItem, len(durations))
		for i, d := range durations {
			skills[i] = models.SkillItem{SkillName: "s", Duration: d}
		}
		return skills
	}

	cases := []struct {
		name   string
		skills []models.SkillItem
		want   int
	}{
		{"no skills", nil, 30},
		{"plain day count", skillsWith("10"), 10},
		{"weeks", skillsWith("2 weeks"), 14},
		{"months", skillsWith("3 months"), 90},
		{"unparseable text", skillsWith("ongoing"), 7},
		{"month without a number", skillsWith("month"), 30},
		{"maximum across skills", skillsWith("2 weeks", "1 month"), 30},
		{"unit match is case sensitive", skillsWith("2 Weeks"), 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := calculateTimelineDays(tc.skills); got != tc.want {
				t.Errorf("calculateTimelineDays(%v) = %d, want %d", tc.skills, got, tc.want)
			}
		})
	}
}

func TestLeadingInt(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"abc", 0},
		{"42", 42},
		{" 7 days", 7},
		{"3weeks", 3},
		{"10 sessions over 2 months", 10},
	}
	for _, tc := range cases {
		if got := leadingInt(tc.in); got != tc.want {
			t.Errorf("leadingInt(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
