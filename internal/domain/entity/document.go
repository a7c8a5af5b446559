package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PersonalInfo holds the testator section of the document.
type PersonalInfo struct {
	FullName             string `json:"fullName"`
	StreetAddress        string `json:"streetAddress"`
	City                 string `json:"city"`
	State                string `json:"state"`
	Zip                  string `json:"zip,omitempty"`
	Country              string `json:"country,omitempty"`
	OriginalWillDate     string `json:"originalWillDate,omitempty"`
	OriginalWillLocation string `json:"originalWillLocation,omitempty"`
}

// ExecutorDetails holds the executor section of the document.
type ExecutorDetails struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Contact      string `json:"contact,omitempty"`
}

// Beneficiary is one named recipient of the crypto estate.
type Beneficiary struct {
	Name              string          `json:"name"`
	Relationship      string          `json:"relationship"`
	Address           string          `json:"address,omitempty"`
	Email             string          `json:"email,omitempty"`
	AllocationPercent decimal.Decimal `json:"allocationPercent"`
	Contingent        bool            `json:"contingent,omitempty"`
}

// EstateDocument is the canonical record the compiler lays out. The same
// shape is serialized as the persisted draft blob, so field names here are
// a wire contract.
type EstateDocument struct {
	DocumentID          string          `json:"documentId"`
	Title               string          `json:"title"`
	PersonalInfo        PersonalInfo    `json:"personalInfo"`
	Executor            ExecutorDetails `json:"executorDetails"`
	Beneficiaries       []Beneficiary   `json:"beneficiaries"`
	Assets              []Asset         `json:"assets"`
	SpecialInstructions string          `json:"specialInstructions,omitempty"`
	AccessInstructions  string          `json:"accessInstructions,omitempty"`
	Warnings            []string        `json:"warnings,omitempty"`
	GeneratedAt         time.Time       `json:"generatedAt"`
}

// DefaultDocumentTitle is used when the caller supplies none.
const DefaultDocumentTitle = "Cryptocurrency Assets Addendum"
