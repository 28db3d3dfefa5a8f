package models

import "time"

// Platform — платформа соцсети, доступная для буста.
// Platform is a social network eligible for boosting.
type Platform struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// Package — тариф буста: цена в USD и ссылка на оплату.
// Package is a boost tier: USD price and a payment link.
type Package struct {
	Name        string `json:"package"`
	Price       int    `json:"price"`
	PaymentLink string `json:"payment_link"`
}

// Admin — пользователь с правами администратора.
// Admin is a user authorized to manage the bot.
type Admin struct {
	UserID    int64     `json:"user_id"`
	AddedBy   int64     `json:"added_by"`
	AddedDate time.Time `json:"added_date"`
}
