package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PostTypeProduct   = "product"
	PostStatusPublish = "publish"
)

// Metadata keys written for every imported product.
const (
	MetaRegularPrice = "regular_price"
	MetaOfferPrice   = "offer_price"
	MetaSourceURL    = "source_url"
)

// Post is a content record. Imported products are posts of PostTypeProduct
// whose remaining fields live in PostMeta rows.
type Post struct {
	ID        string     `json:"id" gorm:"type:varchar(36);primaryKey"`
	Type      string     `json:"type" gorm:"column:post_type;size:32;not null;index"`
	Status    string     `json:"status" gorm:"column:post_status;size:32;not null"`
	Title     string     `json:"title" gorm:"not null"`
	Content   string     `json:"content" gorm:"type:text"`
	Meta      []PostMeta `json:"-" gorm:"foreignKey:PostID"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type PostMeta struct {
	ID     uint   `json:"-" gorm:"primaryKey"`
	PostID string `json:"post_id" gorm:"type:varchar(36);not null;index"`
	Key    string `json:"key" gorm:"column:meta_key;size:255;not null"`
	Value  string `json:"value" gorm:"column:meta_value;type:text"`
}

func (PostMeta) TableName() string {
	return "post_meta"
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// MetaMap flattens the loaded metadata rows. Later rows win on duplicate keys.
func (p *Post) MetaMap() map[string]string {
	m := make(map[string]string, len(p.Meta))
	for _, meta := range p.Meta {
		m[meta.Key] = meta.Value
	}
	return m
}

// ProductRecord is the normalized field set extracted for one product page.
// Every field is always populated; see the diffbot transformer for defaults.
type ProductRecord struct {
	Title        string `json:"title"`
	Text         string `json:"text"`
	RegularPrice string `json:"regular_price"`
	OfferPrice   string `json:"offer_price"`
	SourceURL    string `json:"source_url"`
}

type MetaField struct {
	Key   string
	Value string
}

// Meta returns the fields stored as post metadata, in write order.
func (r ProductRecord) Meta() []MetaField {
	return []MetaField{
		{Key: MetaRegularPrice, Value: r.RegularPrice},
		{Key: MetaOfferPrice, Value: r.OfferPrice},
		{Key: MetaSourceURL, Value: r.SourceURL},
	}
}
