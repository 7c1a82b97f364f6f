package services

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Issuer is the fixed data of the company issuing proposals. It is not
// editable during a session.
type Issuer struct {
	CompanyName       string `yaml:"company_name"`
	CNPJ              string `yaml:"cnpj"`
	StateRegistration string `yaml:"state_registration"`
	Address           string `yaml:"address"`
	City              string `yaml:"city"`
	Phone             string `yaml:"phone"`
	Email             string `yaml:"email"`
	Website           string `yaml:"website"`
	BankName          string `yaml:"bank_name"`
	BankAgency        string `yaml:"bank_agency"`
	BankAccount       string `yaml:"bank_account"`
	PixKey            string `yaml:"pix_key"`
	SignatoryName     string `yaml:"signatory_name"`
	SignatoryRole     string `yaml:"signatory_role"`
}

// DefaultIssuer returns the compiled-in issuer profile.
func DefaultIssuer() Issuer {
	return Issuer{
		CompanyName:       "Soluções Técnicas Exemplo Ltda.",
		CNPJ:              "12.345.678/0001-90",
		StateRegistration: "123.456.789.110",
		Address:           "Av. Paulista, 1000 - Conj. 101 - Bela Vista - CEP 01310-100",
		City:              "São Paulo",
		Phone:             "(11) 3000-0000",
		Email:             "comercial@exemplo.com.br",
		Website:           "www.exemplo.com.br",
		BankName:          "Banco do Brasil",
		BankAgency:        "1234-5",
		BankAccount:       "67890-1",
		PixKey:            "12.345.678/0001-90",
		SignatoryName:     "Carlos Andrade",
		SignatoryRole:     "Diretor Comercial",
	}
}

// LoadIssuer returns the default issuer overlaid with the non-empty fields of
// the YAML file at path. An empty path returns the defaults unchanged.
func LoadIssuer(path string) (Issuer, error) {
	issuer := DefaultIssuer()
	if path == "" {
		return issuer, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return issuer, fmt.Errorf("read issuer file: %w", err)
	}

	var overlay Issuer
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return issuer, fmt.Errorf("parse issuer file: %w", err)
	}

	mergeIssuer(&issuer, overlay)
	return issuer, nil
}

func mergeIssuer(dst *Issuer, src Issuer) {
	fields := []struct {
		dst *string
		src string
	}{
		{&dst.CompanyName, src.CompanyName},
		{&dst.CNPJ, src.CNPJ},
		{&dst.StateRegistration, src.StateRegistration},
		{&dst.Address, src.Address},
		{&dst.City, src.City},
		{&dst.Phone, src.Phone},
		{&dst.Email, src.Email},
		{&dst.Website, src.Website},
		{&dst.BankName, src.BankName},
		{&dst.BankAgency, src.BankAgency},
		{&dst.BankAccount, src.BankAccount},
		{&dst.PixKey, src.PixKey},
		{&dst.SignatoryName, src.SignatoryName},
		{&dst.SignatoryRole, src.SignatoryRole},
	}
	for _, f := range fields {
		if f.src != "" {
			*f.dst = f.src
		}
	}
}

// IssuerLine is one "Label: value" line of an issuer section.
type IssuerLine struct {
	Label string
	Value string
}

// IssuerSection groups issuer lines under a heading.
type IssuerSection struct {
	Title string
	Lines []IssuerLine
}

// Sections returns the issuer data in the fixed order it is rendered:
// company, contact, bank.
func (i Issuer) Sections() []IssuerSection {
	return []IssuerSection{
		{
			Title: "Empresa",
			Lines: []IssuerLine{
				{"Razão social", i.CompanyName},
				{"CNPJ", i.CNPJ},
				{"Inscrição estadual", i.StateRegistration},
				{"Endereço", i.Address},
			},
		},
		{
			Title: "Contato",
			Lines: []IssuerLine{
				{"Telefone", i.Phone},
				{"E-mail", i.Email},
				{"Site", i.Website},
			},
		},
		{
			Title: "Dados Bancários",
			Lines: []IssuerLine{
				{"Banco", i.BankName},
				{"Agência", i.BankAgency},
				{"Conta corrente", i.BankAccount},
				{"Chave PIX", i.PixKey},
			},
		},
	}
}
