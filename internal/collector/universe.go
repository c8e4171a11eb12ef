package collector

import "StockPulse/internal/model"

// DefaultUniverse is the NSE large-cap set loaded by SeedCompanies.
var DefaultUniverse = []model.Company{
	{Symbol: "RELIANCE", Name: "Reliance Industries Ltd", Sector: "Energy", Industry: "Oil & Gas", Exchange: "NSE", Active: true},
	{Symbol: "TCS", Name: "Tata Consultancy Services", Sector: "Technology", Industry: "IT Services", Exchange: "NSE", Active: true},
	{Symbol: "HDFCBANK", Name: "HDFC Bank Ltd", Sector: "Financial Services", Industry: "Banking", Exchange: "NSE", Active: true},
	{Symbol: "INFY", Name: "Infosys Ltd", Sector: "Technology", Industry: "IT Services", Exchange: "NSE", Active: true},
	{Symbol: "ICICIBANK", Name: "ICICI Bank Ltd", Sector: "Financial Services", Industry: "Banking", Exchange: "NSE", Active: true},
	{Symbol: "HINDUNILVR", Name: "Hindustan Unilever Ltd", Sector: "Consumer Goods", Industry: "FMCG", Exchange: "NSE", Active: true},
	{Symbol: "ITC", Name: "ITC Ltd", Sector: "Consumer Goods", Industry: "FMCG", Exchange: "NSE", Active: true},
	{Symbol: "SBIN", Name: "State Bank of India", Sector: "Financial Services", Industry: "Banking", Exchange: "NSE", Active: true},
	{Symbol: "BHARTIARTL", Name: "Bharti Airtel Ltd", Sector: "Telecommunication", Industry: "Telecom Services", Exchange: "NSE", Active: true},
	{Symbol: "KOTAKBANK", Name: "Kotak Mahindra Bank Ltd", Sector: "Financial Services", Industry: "Banking", Exchange: "NSE", Active: true},
	{Symbol: "LT", Name: "Larsen & Toubro Ltd", Sector: "Industrials", Industry: "Construction", Exchange: "NSE", Active: true},
	{Symbol: "AXISBANK", Name: "Axis Bank Ltd", Sector: "Financial Services", Industry: "Banking", Exchange: "NSE", Active: true},
	{Symbol: "ASIANPAINT", Name: "Asian Paints Ltd", Sector: "Consumer Goods", Industry: "Paints", Exchange: "NSE", Active: true},
	{Symbol: "MARUTI", Name: "Maruti Suzuki India Ltd", Sector: "Automobile", Industry: "Passenger Vehicles", Exchange: "NSE", Active: true},
	{Symbol: "WIPRO", Name: "Wipro Ltd", Sector: "Technology", Industry: "IT Services", Exchange: "NSE", Active: true},
}

// IndexBase is a tracked market index and the level it drifts around.
type IndexBase struct {
	Name string
	Base float64
}

// DefaultIndices are the indices refreshed by RefreshIndices.
var DefaultIndices = []IndexBase{
	{Name: "NIFTY 50", Base: 18456.78},
	{Name: "SENSEX", Base: 61872.99},
	{Name: "NIFTY BANK", Base: 43245.12},
	{Name: "NIFTY IT", Base: 28934.56},
}
