package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"reviewloop/internal/models"

	"googlemaps.github.io/maps"
)

var (
	mapsClient  *maps.Client
	ErrNoAPIKey = errors.New("GOOGLE_MAPS_API_KEY environment variable not set")
)

// reviewLinkFormat is Google's canonical "write a review" deep link
const reviewLinkFormat = "https://search.google.com/local/writereview?placeid=%s"

// InitMapsClient initializes the Google Maps client
func InitMapsClient() error {
	apiKey := os.Getenv("GOOGLE_MAPS_API_KEY")
	if apiKey == "" {
		return ErrNoAPIKey
	}

	var err error
	mapsClient, err = maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return err
	}

	return nil
}

// LookupPlace validates a Google Place ID and derives the business's review
// link from it. Called when a dashboard user saves their business profile.
func LookupPlace(placeID string) (*models.PlaceInfo, error) {
	if mapsClient == nil {
		if err := InitMapsClient(); err != nil {
			return nil, err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	request := &maps.PlaceDetailsRequest{
		PlaceID: placeID,
		Fields: []maps.PlaceDetailsFieldMask{
			maps.PlaceDetailsFieldMaskFormattedAddress,
			maps.PlaceDetailsFieldMaskName,
			maps.PlaceDetailsFieldMaskPlaceID,
		},
	}

	response, err := mapsClient.PlaceDetails(ctx, request)
	if err != nil {
		return nil, err
	}

	return &models.PlaceInfo{
		PlaceID:          response.PlaceID,
		Name:             response.Name,
		FormattedAddress: response.FormattedAddress,
		ReviewLink:       ReviewLinkForPlace(response.PlaceID),
	}, nil
}

// ReviewLinkForPlace builds the public "write a review" URL for a Place ID
func ReviewLinkForPlace(placeID string) string {
	return fmt.Sprintf(reviewLinkFormat, placeID)
}
