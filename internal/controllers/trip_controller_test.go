package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Manrrolo/carpool-backend/internal/config"
	"github.com/Manrrolo/carpool-backend/internal/models"
)

func startTrip(t *testing.T, r *gin.Engine, token string, tripID uint) {
	t.Helper()
	w := performRequest(r, "PUT", fmt.Sprintf("/trips/start/%d", tripID), token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("start trip %d: status %d, body %s", tripID, w.Code, w.Body.String())
	}
}

func TestDirectCreateTrip(t *testing.T) {
	r := setupTest(t)
	driver, driverToken := createUser(t, "driver")
	_, passengerToken := createUser(t, "passenger")

	publication := createPublication(t, r, driverToken, 2)

	// the driver already got a trip at publication creation
	w := performRequest(r, "POST", "/trips", driverToken, gin.H{"publication_id": publication.ID})
	if w.Code != http.StatusForbidden {
		t.Fatalf("duplicate driver trip: status %d, want 403", w.Code)
	}

	// a passenger without an accepted request is refused
	w = performRequest(r, "POST", "/trips", passengerToken, gin.H{"publication_id": publication.ID})
	if w.Code != http.StatusForbidden {
		t.Fatalf("trip without accepted request: status %d, want 403", w.Code)
	}

	// accept, delete the auto-spawned trip, then the direct path works
	request := createRequest(t, r, passengerToken, publication.ID)
	acceptRequest(t, r, driverToken, request.ID)
	config.DB.Unscoped().
		Where("publication_id = ? AND user_id <> ?", publication.ID, driver.ID).
		Delete(&models.Trip{})

	w = performRequest(r, "POST", "/trips", passengerToken, gin.H{"publication_id": publication.ID})
	if w.Code != http.StatusCreated {
		t.Fatalf("direct create after acceptance: status %d, body %s", w.Code, w.Body.String())
	}
}

func TestTripLifecycle(t *testing.T) {
	r := setupTest(t)
	driver, driverToken := createUser(t, "driver")

	publication := createPublication(t, r, driverToken, 2)
	trip := tripFor(t, publication.ID, driver.ID)

	// completing a pending trip fails
	w := performRequest(r, "PUT", fmt.Sprintf("/trips/complete/%d", trip.ID), driverToken, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("complete pending trip: status %d, want 403", w.Code)
	}

	startTrip(t, r, driverToken, trip.ID)

	var started models.Trip
	if err := config.DB.First(&started, trip.ID).Error; err != nil {
		t.Fatal(err)
	}
	if started.Status != models.TripStatusInProgress {
		t.Errorf("status = %q, want in progress", started.Status)
	}
	if started.DepartureDateTime == nil {
		t.Error("departure time not stamped")
	}

	// starting twice fails
	w = performRequest(r, "PUT", fmt.Sprintf("/trips/start/%d", trip.ID), driverToken, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("double start: status %d, want 403", w.Code)
	}

	w = performRequest(r, "PUT", fmt.Sprintf("/trips/complete/%d", trip.ID), driverToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("complete: status %d, body %s", w.Code, w.Body.String())
	}

	var completed models.Trip
	if err := config.DB.First(&completed, trip.ID).Error; err != nil {
		t.Fatal(err)
	}
	if completed.Status != models.TripStatusCompleted {
		t.Errorf("status = %q, want completed", completed.Status)
	}
	if completed.ArrivalDateTime == nil {
		t.Error("arrival time not stamped")
	}
}

func TestStartTripOwnership(t *testing.T) {
	r := setupTest(t)
	driver, driverToken := createUser(t, "driver")
	_, strangerToken := createUser(t, "passenger")

	publication := createPublication(t, r, driverToken, 2)
	trip := tripFor(t, publication.ID, driver.ID)

	w := performRequest(r, "PUT", fmt.Sprintf("/trips/start/%d", trip.ID), strangerToken, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("start by non-owner: status %d, want 403", w.Code)
	}

	w = performRequest(r, "PUT", "/trips/start/9999", driverToken, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("start missing trip: status %d, want 404", w.Code)
	}
}

func TestOneTripInProgressPerUser(t *testing.T) {
	r := setupTest(t)
	driver, driverToken := createUser(t, "driver")

	first := createPublication(t, r, driverToken, 2)
	second := createPublication(t, r, driverToken, 2)

	firstTrip := tripFor(t, first.ID, driver.ID)
	secondTrip := tripFor(t, second.ID, driver.ID)

	startTrip(t, r, driverToken, firstTrip.ID)

	w := performRequest(r, "PUT", fmt.Sprintf("/trips/start/%d", secondTrip.ID), driverToken, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("second concurrent trip: status %d, want 403", w.Code)
	}

	var untouched models.Trip
	if err := config.DB.First(&untouched, secondTrip.ID).Error; err != nil {
		t.Fatal(err)
	}
	if untouched.Status != models.TripStatusPending {
		t.Errorf("second trip status = %q, want pending", untouched.Status)
	}
}

func TestGetTripInfo(t *testing.T) {
	r := setupTest(t)
	driver, driverToken := createUser(t, "driver")
	passenger, passengerToken := createUser(t, "passenger")
	_, strangerToken := createUser(t, "passenger")

	publication := createPublication(t, r, driverToken, 2)
	request := createRequest(t, r, passengerToken, publication.ID)
	acceptRequest(t, r, driverToken, request.ID)

	passengerTrip := tripFor(t, publication.ID, passenger.ID)
	startTrip(t, r, passengerToken, passengerTrip.ID)

	driverTrip := tripFor(t, publication.ID, driver.ID)

	w := performRequest(r, "GET", fmt.Sprintf("/trips/%d/info", driverTrip.ID), strangerToken, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("trip info as stranger: status %d, want 403", w.Code)
	}

	w = performRequest(r, "GET", fmt.Sprintf("/trips/%d/info", driverTrip.ID), passengerToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("trip info as participant: status %d, body %s", w.Code, w.Body.String())
	}
	var info struct {
		Origin string `json:"origin"`
		Driver struct {
			IsCaller bool `json:"is_caller"`
		} `json:"driver"`
		Passengers []struct {
			FirstName string `json:"first_name"`
			IsCaller  bool   `json:"is_caller"`
		} `json:"passengers"`
	}
	decodeBody(t, w, &info)
	if info.Origin != "Santiago" {
		t.Errorf("origin = %q", info.Origin)
	}
	if info.Driver.IsCaller {
		t.Error("driver flagged as caller for a passenger request")
	}
	if len(info.Passengers) != 1 || !info.Passengers[0].IsCaller {
		t.Errorf("passenger roster wrong: %+v", info.Passengers)
	}
}

func TestInProgressAndCompletedListings(t *testing.T) {
	r := setupTest(t)
	driver, driverToken := createUser(t, "driver")

	publication := createPublication(t, r, driverToken, 2)
	trip := tripFor(t, publication.ID, driver.ID)

	w := performRequest(r, "GET", "/trips/inprogress", driverToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("inprogress: status %d", w.Code)
	}
	if w.Body.String() != "[]" {
		t.Errorf("inprogress with no started trip = %s, want []", w.Body.String())
	}

	startTrip(t, r, driverToken, trip.ID)

	w = performRequest(r, "GET", "/trips/inprogress", driverToken, nil)
	var inProgress struct {
		TripID uint `json:"trip_id"`
	}
	decodeBody(t, w, &inProgress)
	if inProgress.TripID != trip.ID {
		t.Errorf("trip_id = %d, want %d", inProgress.TripID, trip.ID)
	}

	w = performRequest(r, "PUT", fmt.Sprintf("/trips/complete/%d", trip.ID), driverToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("complete: status %d", w.Code)
	}

	w = performRequest(r, "GET", "/trips/completed", driverToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("completed: status %d", w.Code)
	}
	var completed []struct {
		TripID      uint   `json:"trip_id"`
		Origin      string `json:"origin"`
		Destination string `json:"destination"`
	}
	decodeBody(t, w, &completed)
	if len(completed) != 1 || completed[0].TripID != trip.ID || completed[0].Origin != "Santiago" {
		t.Errorf("completed listing wrong: %+v", completed)
	}
}

func TestTripsForPublicationDriverOnly(t *testing.T) {
	r := setupTest(t)
	_, driverToken := createUser(t, "driver")
	_, otherDriverToken := createUser(t, "driver")

	publication := createPublication(t, r, driverToken, 2)

	w := performRequest(r, "GET", fmt.Sprintf("/trips/publication/%d", publication.ID), otherDriverToken, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("trips of foreign publication: status %d, want 403", w.Code)
	}

	w = performRequest(r, "GET", fmt.Sprintf("/trips/publication/%d", publication.ID), driverToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("trips of own publication: status %d", w.Code)
	}
	var trips []models.Trip
	decodeBody(t, w, &trips)
	if len(trips) != 1 {
		t.Errorf("trips = %d, want 1 (the driver's)", len(trips))
	}
}
