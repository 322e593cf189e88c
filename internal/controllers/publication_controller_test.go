package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Manrrolo/carpool-backend/internal/config"
	"github.com/Manrrolo/carpool-backend/internal/models"
)

func TestCreatePublicationSpawnsDriverTrip(t *testing.T) {
	r := setupTest(t)
	driver, driverToken := createUser(t, "driver")

	publication := createPublication(t, r, driverToken, 3)
	if !publication.Status {
		t.Error("new publication should be open")
	}
	if publication.AvailableSeats != 3 {
		t.Errorf("available seats = %d, want 3", publication.AvailableSeats)
	}

	trip := tripFor(t, publication.ID, driver.ID)
	if trip.Status != models.TripStatusPending {
		t.Errorf("driver trip status = %q, want pending", trip.Status)
	}
}

func TestCreatePublicationRequiresDriverRole(t *testing.T) {
	r := setupTest(t)
	_, passengerToken := createUser(t, "passenger")

	w := performRequest(r, "POST", "/createPublication", passengerToken, gin.H{
		"origin":          "Santiago",
		"destination":     "Valparaiso",
		"available_seats": 2,
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("create as passenger: status %d, want 403", w.Code)
	}

	// the gate must stop the handler from running at all
	var count int64
	config.DB.Model(&models.Publication{}).Count(&count)
	if count != 0 {
		t.Errorf("publications created = %d, want 0", count)
	}
}

func TestUpdatePublicationOwnership(t *testing.T) {
	r := setupTest(t)
	_, ownerToken := createUser(t, "driver")
	_, otherToken := createUser(t, "driver")

	publication := createPublication(t, r, ownerToken, 2)

	w := performRequest(r, "PATCH", fmt.Sprintf("/updatePublication/%d", publication.ID), otherToken,
		gin.H{"cost": 9999})
	if w.Code != http.StatusForbidden {
		t.Fatalf("update by non-owner: status %d, want 403", w.Code)
	}

	var unchanged models.Publication
	if err := config.DB.First(&unchanged, publication.ID).Error; err != nil {
		t.Fatal(err)
	}
	if unchanged.Cost != publication.Cost {
		t.Error("publication mutated by unauthorized update")
	}

	w = performRequest(r, "PATCH", fmt.Sprintf("/updatePublication/%d", publication.ID), ownerToken,
		gin.H{"cost": 2000, "origin": "Rancagua"})
	if w.Code != http.StatusOK {
		t.Fatalf("update by owner: status %d, body %s", w.Code, w.Body.String())
	}

	var updated models.Publication
	if err := config.DB.First(&updated, publication.ID).Error; err != nil {
		t.Fatal(err)
	}
	if updated.Cost != 2000 || updated.Origin != "Rancagua" {
		t.Errorf("patch not applied: cost=%d origin=%q", updated.Cost, updated.Origin)
	}
	if updated.Destination != publication.Destination {
		t.Error("absent patch field overwrote destination")
	}
}

func TestUpdatePublicationToZeroSeatsCloses(t *testing.T) {
	r := setupTest(t)
	_, driverToken := createUser(t, "driver")
	publication := createPublication(t, r, driverToken, 2)

	w := performRequest(r, "PATCH", fmt.Sprintf("/updatePublication/%d", publication.ID), driverToken,
		gin.H{"available_seats": 0})
	if w.Code != http.StatusOK {
		t.Fatalf("update: status %d, body %s", w.Code, w.Body.String())
	}

	var updated models.Publication
	if err := config.DB.First(&updated, publication.ID).Error; err != nil {
		t.Fatal(err)
	}
	if updated.Status {
		t.Error("publication with zero seats should be closed")
	}
}

func TestCancelPublicationCascadesToRequests(t *testing.T) {
	r := setupTest(t)
	_, driverToken := createUser(t, "driver")
	_, passengerAToken := createUser(t, "passenger")
	passengerB, passengerBToken := createUser(t, "passenger")

	publication := createPublication(t, r, driverToken, 3)
	requestA := createRequest(t, r, passengerAToken, publication.ID)
	requestB := createRequest(t, r, passengerBToken, publication.ID)
	acceptRequest(t, r, driverToken, requestB.ID)

	w := performRequest(r, "PATCH", fmt.Sprintf("/cancelPublication/%d", publication.ID), driverToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("cancel: status %d, body %s", w.Code, w.Body.String())
	}

	var cancelled models.Publication
	if err := config.DB.First(&cancelled, publication.ID).Error; err != nil {
		t.Fatal(err)
	}
	if cancelled.Status {
		t.Error("cancelled publication still open")
	}

	// every request is rejected, the already-accepted one included
	for _, id := range []uint{requestA.ID, requestB.ID} {
		var request models.Request
		if err := config.DB.First(&request, id).Error; err != nil {
			t.Fatal(err)
		}
		if request.Status != models.RequestStatusRejected {
			t.Errorf("request %d status = %q, want rejected", id, request.Status)
		}
	}

	// the spawned trip survives cancellation
	trip := tripFor(t, publication.ID, passengerB.ID)
	if trip.Status != models.TripStatusPending {
		t.Errorf("passenger trip status = %q, want pending", trip.Status)
	}
}

func TestFilterPublications(t *testing.T) {
	r := setupTest(t)
	_, driverToken := createUser(t, "driver")
	_, passengerToken := createUser(t, "passenger")

	w := performRequest(r, "POST", "/createPublication", driverToken, gin.H{
		"origin":          "Santiago Centro",
		"destination":     "Valparaiso",
		"available_seats": 2,
		"departure_date":  "2026-09-01T09:00:00Z",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status %d", w.Code)
	}
	w = performRequest(r, "POST", "/createPublication", driverToken, gin.H{
		"origin":          "Concepcion",
		"destination":     "Temuco",
		"available_seats": 2,
		"departure_date":  "2026-09-10T09:00:00Z",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status %d", w.Code)
	}

	// case-insensitive substring on origin
	w = performRequest(r, "POST", "/publications/filtered", passengerToken, gin.H{"origin": "santiago"})
	if w.Code != http.StatusOK {
		t.Fatalf("filter: status %d, body %s", w.Code, w.Body.String())
	}
	var results []models.Publication
	decodeBody(t, w, &results)
	if len(results) != 1 || results[0].Origin != "Santiago Centro" {
		t.Fatalf("origin filter returned %d results", len(results))
	}

	// day-granular date range includes the whole end day
	w = performRequest(r, "POST", "/publications/filtered", passengerToken, gin.H{
		"start_date": "2026-09-05",
		"end_date":   "2026-09-10",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("filter: status %d", w.Code)
	}
	decodeBody(t, w, &results)
	if len(results) != 1 || results[0].Destination != "Temuco" {
		t.Fatalf("date filter returned %d results", len(results))
	}
}

func TestGetPublicationNotFound(t *testing.T) {
	r := setupTest(t)
	_, token := createUser(t, "passenger")

	w := performRequest(r, "GET", "/publications/9999", token, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get missing publication: status %d, want 404", w.Code)
	}
}
