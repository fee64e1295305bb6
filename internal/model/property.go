package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Property struct {
	ID                        int32              `json:"id"`
	UserID                    uuid.UUID          `json:"user_id"`
	CreatedAt                 time.Time          `json:"created_at"`
	UpdatedAt                 time.Time          `json:"updated_at"`
	SitePath                  string             `json:"site_path"`
	Title                     string             `json:"title"`
	Description               string             `json:"description"`
	Province                  string             `json:"province"`
	Regency                   string             `json:"regency"`
	Street                    string             `json:"street"`
	GmapIframe                *string            `json:"gmap_iframe,omitempty"`
	Price                     int64              `json:"price"`
	Images                    json.RawMessage    `json:"images"`
	PurchaseStatus            PurchaseStatus     `json:"purchase_status"`
	SoldStatus                SoldStatus         `json:"sold_status"`
	Measurements              json.RawMessage    `json:"measurements"`
	BuildingType              string             `json:"building_type"`
	BuildingCondition         BuildingCondition  `json:"building_condition"`
	BuildingFurnitureCapacity *FurnitureCapacity `json:"building_furniture_capacity,omitempty"`
	BuildingCertificate       *string            `json:"building_certificate,omitempty"`
	Specifications            json.RawMessage    `json:"specifications"`
	Facilities                json.RawMessage    `json:"facilities"`
	IsDeleted                 bool               `json:"is_deleted"`
	SoldChannel               *SoldChannel       `json:"sold_channel,omitempty"`
	Configurations            json.RawMessage    `json:"configurations"`
	Currency                  Currency           `json:"currency"`
	RentTime                  *RentTime          `json:"rent_time,omitempty"`
	DescriptionSEO            *string            `json:"description_seo,omitempty"`
	PriceDownPayment          *int64             `json:"price_down_payment,omitempty"`
	DeveloperID               *int32             `json:"developer_id,omitempty"`
	BankID                    *int32             `json:"bank_id,omitempty"`
}

// PropertyWithAgent is the result row shape: a listing is never returned
// without its owning agent.
type PropertyWithAgent struct {
	Property Property `json:"property"`
	Agent    Agent    `json:"agent"`
}

type Image struct {
	IsCover         bool   `json:"is_cover"`
	Path            string `json:"path"`
	EnglishLabel    string `json:"english_label"`
	IndonesianLabel string `json:"indonesian_label"`
}

type Measurements struct {
	LandArea      *int32 `json:"land_area,omitempty"`
	BuildingArea  *int32 `json:"building_area,omitempty"`
	BuildingLevel *int32 `json:"building_level,omitempty"`
}

type Specifications struct {
	Bedrooms        *int32 `json:"bedrooms,omitempty"`
	Bathrooms       *int32 `json:"bathrooms,omitempty"`
	Garage          *int32 `json:"garage,omitempty"`
	Carport         *int32 `json:"carport,omitempty"`
	ElectricalPower *int32 `json:"electrical_power,omitempty"`
}

type Facility struct {
	Value           string `json:"value"`
	IndonesianLabel string `json:"indonesian_label"`
}

type SavePropertyRequest struct {
	Title                     string         `json:"title"`
	Description               string         `json:"description"`
	Province                  string         `json:"province"`
	Regency                   string         `json:"regency"`
	Street                    string         `json:"street"`
	GmapIframe                *string        `json:"gmap_iframe"`
	Price                     int64          `json:"price"`
	Images                    []Image        `json:"images"`
	PurchaseStatus            string         `json:"purchase_status"`
	SoldStatus                *string        `json:"sold_status"`
	Measurements              Measurements   `json:"measurements"`
	BuildingType              string         `json:"building_type"`
	BuildingCondition         string         `json:"building_condition"`
	BuildingFurnitureCapacity *string        `json:"building_furniture_capacity"`
	BuildingCertificate       *string        `json:"building_certificate"`
	Specifications            Specifications `json:"specifications"`
	Facilities                []Facility     `json:"facilities"`
	SoldChannel               *string        `json:"sold_channel"`
	Currency                  string         `json:"currency"`
	RentTime                  *string        `json:"rent_time"`
	DescriptionSEO            *string        `json:"description_seo"`
	PriceDownPayment          *int64         `json:"price_down_payment"`
	DeveloperID               *int32         `json:"developer_id"`
	BankID                    *int32         `json:"bank_id"`
}

// PropertyRecord is the normalized write shape: locations lowercased, JSON
// bags marshaled, site path derived. Built only through Normalize so the
// site-path invariant holds on every insert and explicit update.
type PropertyRecord struct {
	SitePath                  string
	Title                     string
	Description               string
	Province                  string
	Regency                   string
	Street                    string
	GmapIframe                *string
	Price                     int64
	Images                    json.RawMessage
	PurchaseStatus            PurchaseStatus
	SoldStatus                SoldStatus
	Measurements              json.RawMessage
	BuildingType              string
	BuildingCondition         BuildingCondition
	BuildingFurnitureCapacity *FurnitureCapacity
	BuildingCertificate       *string
	Specifications            json.RawMessage
	Facilities                json.RawMessage
	SoldChannel               *SoldChannel
	Currency                  Currency
	RentTime                  *RentTime
	DescriptionSEO            *string
	PriceDownPayment          *int64
	DeveloperID               *int32
	BankID                    *int32
}

// Normalize validates the enum fields and produces the write shape.
func (r *SavePropertyRequest) Normalize() (*PropertyRecord, error) {
	purchase, err := ParsePurchaseStatus(r.PurchaseStatus)
	if err != nil {
		return nil, err
	}
	sold := SoldAvailable
	if r.SoldStatus != nil {
		if sold, err = ParseSoldStatus(*r.SoldStatus); err != nil {
			return nil, err
		}
	}
	condition, err := ParseBuildingCondition(r.BuildingCondition)
	if err != nil {
		return nil, err
	}
	currency, err := ParseCurrency(r.Currency)
	if err != nil {
		return nil, err
	}

	var furniture *FurnitureCapacity
	if r.BuildingFurnitureCapacity != nil {
		f, err := ParseFurnitureCapacity(*r.BuildingFurnitureCapacity)
		if err != nil {
			return nil, err
		}
		furniture = &f
	}
	var channel *SoldChannel
	if r.SoldChannel != nil {
		ch, err := ParseSoldChannel(*r.SoldChannel)
		if err != nil {
			return nil, err
		}
		channel = &ch
	}
	var rentTime *RentTime
	if r.RentTime != nil {
		rt, err := ParseRentTime(*r.RentTime)
		if err != nil {
			return nil, err
		}
		rentTime = &rt
	}

	if strings.TrimSpace(r.Title) == "" {
		return nil, fmt.Errorf("title is required")
	}

	images, err := json.Marshal(r.Images)
	if err != nil {
		return nil, err
	}
	measurements, err := json.Marshal(r.Measurements)
	if err != nil {
		return nil, err
	}
	specifications, err := json.Marshal(r.Specifications)
	if err != nil {
		return nil, err
	}
	facilities, err := json.Marshal(r.Facilities)
	if err != nil {
		return nil, err
	}

	var certificate *string
	if r.BuildingCertificate != nil {
		c := strings.ToLower(*r.BuildingCertificate)
		certificate = &c
	}

	return &PropertyRecord{
		SitePath:                  BuildSitePath(purchase, r.BuildingType, r.Province, r.Regency, r.Street),
		Title:                     r.Title,
		Description:               r.Description,
		Province:                  strings.ToLower(strings.TrimSpace(r.Province)),
		Regency:                   strings.ToLower(strings.TrimSpace(r.Regency)),
		Street:                    strings.ToLower(strings.TrimSpace(r.Street)),
		GmapIframe:                r.GmapIframe,
		Price:                     r.Price,
		Images:                    images,
		PurchaseStatus:            purchase,
		SoldStatus:                sold,
		Measurements:              measurements,
		BuildingType:              strings.ToLower(r.BuildingType),
		BuildingCondition:         condition,
		BuildingFurnitureCapacity: furniture,
		BuildingCertificate:       certificate,
		Specifications:            specifications,
		Facilities:                facilities,
		SoldChannel:               channel,
		Currency:                  currency,
		RentTime:                  rentTime,
		DescriptionSEO:            r.DescriptionSEO,
		PriceDownPayment:          r.PriceDownPayment,
		DeveloperID:               r.DeveloperID,
		BankID:                    r.BankID,
	}, nil
}
