package rules

import (
	"context"

	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/olusolaa/infra-policy-gate/internal/core/domain"
)

var launchTypes = []string{domain.TypeInstance, domain.TypeLaunchTemplate}

func computeRules(s Settings) []domain.RuleDefinition {
	return []domain.RuleDefinition{
		define(IDNoPublicIP, domain.DomainCompute, domain.SeverityBlocking, "SC-7",
			"Instances and launch templates must not request a public IP address", noPublicIP),
		define(IDRestrictSensitivePorts, domain.DomainCompute, domain.SeverityBlocking, "SC-7",
			"Sensitive ports must not be open to unrestricted sources", restrictSensitivePorts(s)),
		define(IDNoUnrestrictedAllTraffic, domain.DomainCompute, domain.SeverityBlocking, "SC-7",
			"Ingress must not allow all traffic from unrestricted sources", noUnrestrictedAllTraffic),
		define(IDRequireIMDSv2, domain.DomainCompute, domain.SeverityBlocking, "CM-6",
			"Instances and launch templates must require IMDSv2 session tokens", requireIMDSv2),
		define(IDRequireInstanceProfile, domain.DomainCompute, domain.SeverityBlocking, "AC-6",
			"Instances and launch templates must attach an IAM instance profile", requireInstanceProfile),
		define(IDRequireSSHKey, domain.DomainCompute, domain.SeverityBlocking, "IA-2",
			"Instances and launch templates must reference an SSH key pair", requireSSHKey),
		define(IDASGUseLaunchTemplate, domain.DomainCompute, domain.SeverityAdvisory, "CM-2",
			"Autoscaling groups should use launch templates instead of launch configurations", asgUseLaunchTemplate),
	}
}

func noPublicIP(_ context.Context, cs *domain.ChangeSet, c *Collector) {
	for _, rc := range cs.InScopeOfType(launchTypes...) {
		attrs := rc.Attributes()
		switch rc.Type {
		case domain.TypeInstance:
			if isTrue(attrs, domain.ComputeAssociatePublicIPKey) {
				c.Add(rc.Address, "%s requests a public IP address (associate_public_ip_address = true)", rc.Address)
			}
		case domain.TypeLaunchTemplate:
			nics, _ := attrs.Blocks(domain.ComputeNetworkInterfacesKey)
			for _, nic := range nics {
				if isTrue(nic, domain.ComputeAssociatePublicIPKey) {
					c.Add(rc.Address, "%s has a network interface that requests a public IP address", rc.Address)
				}
			}
		}
	}
}

func requireIMDSv2(_ context.Context, cs *domain.ChangeSet, c *Collector) {
	required := string(ec2types.HttpTokensStateRequired)
	for _, rc := range cs.InScopeOfType(launchTypes...) {
		opts, ok := rc.Attributes().Block(domain.ComputeMetadataOptionsKey)
		if !ok {
			c.Add(rc.Address, "%s has no metadata_options block; http_tokens must be '%s'", rc.Address, required)
			continue
		}
		if tokens, _ := opts.String(domain.ComputeHTTPTokensKey); tokens != required {
			c.Add(rc.Address, "%s sets metadata_options.http_tokens to '%s'; it must be '%s'",
				rc.Address, describe(opts, domain.ComputeHTTPTokensKey), required)
		}
	}
}

func requireInstanceProfile(_ context.Context, cs *domain.ChangeSet, c *Collector) {
	for _, rc := range cs.InScopeOfType(launchTypes...) {
		attrs := rc.Attributes()
		attached := false
		switch rc.Type {
		case domain.TypeInstance:
			attached = hasValue(attrs, domain.ComputeIAMInstanceProfileKey)
		case domain.TypeLaunchTemplate:
			if profile, ok := attrs.Block(domain.ComputeIAMInstanceProfileKey); ok {
				attached = hasValue(profile, domain.KeyName) || hasValue(profile, "arn")
			}
		}
		if !attached {
			c.Add(rc.Address, "%s does not attach an IAM instance profile", rc.Address)
		}
	}
}

func requireSSHKey(_ context.Context, cs *domain.ChangeSet, c *Collector) {
	for _, rc := range cs.InScopeOfType(launchTypes...) {
		if !hasValue(rc.Attributes(), domain.ComputeKeyNameKey) {
			c.Add(rc.Address, "%s does not reference an SSH key pair (key_name)", rc.Address)
		}
	}
}

func asgUseLaunchTemplate(_ context.Context, cs *domain.ChangeSet, c *Collector) {
	for _, rc := range cs.InScopeOfType(domain.TypeAutoscalingGroup) {
		attrs := rc.Attributes()
		if hasValue(attrs, domain.ASGLaunchConfigurationKey) {
			c.Add(rc.Address, "%s uses launch configuration '%s'; use a launch template instead",
				rc.Address, describe(attrs, domain.ASGLaunchConfigurationKey))
		}
	}
}
