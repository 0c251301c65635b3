package service

import (
	"math"
	"sort"

	"github.com/noah-isme/wellbeing-api/internal/dto"
	"github.com/noah-isme/wellbeing-api/internal/models"
)

type runningMean struct {
	sum   int
	count int
}

func (r runningMean) value() float64 {
	if r.count == 0 {
		return 0
	}
	return float64(r.sum) / float64(r.count)
}

// perUserAverages collapses submissions to one mean intensity per user.
func perUserAverages(submissions []models.Submission) map[string]float64 {
	acc := make(map[string]runningMean)
	for _, sub := range submissions {
		m := acc[sub.UserID]
		m.sum += sub.Intensity
		m.count++
		acc[sub.UserID] = m
	}
	result := make(map[string]float64, len(acc))
	for user, m := range acc {
		result[user] = m.value()
	}
	return result
}

func meanOf(values map[string]float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var total float64
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

// highIntensityUsers counts users whose average is at or above the high threshold.
func highIntensityUsers(values map[string]float64) int {
	count := 0
	for _, v := range values {
		if v >= models.HighIntensityThreshold {
			count++
		}
	}
	return count
}

func percentage(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return round2(float64(part) / float64(whole) * 100)
}

// domainStats aggregates by primary domain, averaging per user first. Rows follow canonical domain order.
func domainStats(submissions []models.Submission) []dto.DomainStat {
	byDomain := make(map[models.Domain][]models.Submission)
	for _, sub := range submissions {
		byDomain[sub.PrimaryDomain] = append(byDomain[sub.PrimaryDomain], sub)
	}
	stats := make([]dto.DomainStat, 0, len(byDomain))
	for _, domain := range models.Domains {
		subs, ok := byDomain[domain]
		if !ok {
			continue
		}
		users := perUserAverages(subs)
		high := highIntensityUsers(users)
		stats = append(stats, dto.DomainStat{
			Domain:             domain,
			AverageIntensity:   round2(meanOf(users)),
			UserCount:          len(users),
			HighIntensityUsers: high,
			HighIntensityShare: percentage(high, len(users)),
		})
	}
	return stats
}

// qualifyingDomains keeps rows backed by at least minUsers distinct users.
func qualifyingDomains(stats []dto.DomainStat, minUsers int) []dto.DomainStat {
	result := make([]dto.DomainStat, 0, len(stats))
	for _, stat := range stats {
		if stat.UserCount >= minUsers {
			result = append(result, stat)
		}
	}
	return result
}

// topByIntensity returns the row with the highest average; earlier canonical domains win ties.
func topByIntensity(stats []dto.DomainStat) (dto.DomainStat, bool) {
	if len(stats) == 0 {
		return dto.DomainStat{}, false
	}
	top := stats[0]
	for _, stat := range stats[1:] {
		if stat.AverageIntensity > top.AverageIntensity {
			top = stat
		}
	}
	return top, true
}

// pressuredDomains lists qualifying domains whose average is high.
func pressuredDomains(stats []dto.DomainStat, minUsers int) map[models.Domain]bool {
	result := make(map[models.Domain]bool)
	for _, stat := range qualifyingDomains(stats, minUsers) {
		if stat.AverageIntensity >= models.HighIntensityThreshold {
			result[stat.Domain] = true
		}
	}
	return result
}

// sustainedDomains returns domains pressured in both windows, in canonical order.
func sustainedDomains(current, previous map[models.Domain]bool) []models.Domain {
	result := make([]models.Domain, 0)
	for _, domain := range models.Domains {
		if current[domain] && previous[domain] {
			result = append(result, domain)
		}
	}
	return result
}

// domainFrequency counts distinct users per domain across primary and secondary tags,
// drops domains reported by fewer than minSize users and ranks the rest by count,
// canonical order on ties.
func domainFrequency(submissions []models.Submission, minSize int) []dto.DomainCount {
	users := make(map[models.Domain]map[string]struct{})
	tag := func(domain models.Domain, userID string) {
		if users[domain] == nil {
			users[domain] = make(map[string]struct{})
		}
		users[domain][userID] = struct{}{}
	}
	for _, sub := range submissions {
		tag(sub.PrimaryDomain, sub.UserID)
		if sub.SecondaryDomain != nil {
			tag(*sub.SecondaryDomain, sub.UserID)
		}
	}
	result := make([]dto.DomainCount, 0, len(users))
	for _, domain := range models.Domains {
		if count := len(users[domain]); count > 0 && count >= minSize {
			result = append(result, dto.DomainCount{Domain: domain, Count: count})
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Count > result[j].Count
	})
	return result
}

// highestTierPerUser keeps the maximum tier each user reached.
func highestTierPerUser(classifications []models.RiskClassification) map[string]models.RiskTier {
	result := make(map[string]models.RiskTier)
	for _, c := range classifications {
		if current, ok := result[c.UserID]; !ok || c.Tier > current {
			result[c.UserID] = c.Tier
		}
	}
	return result
}

func distinctClassifiedUsers(classifications []models.RiskClassification) int {
	users := make(map[string]struct{})
	for _, c := range classifications {
		users[c.UserID] = struct{}{}
	}
	return len(users)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func floatPtr(v float64) *float64 {
	return &v
}
